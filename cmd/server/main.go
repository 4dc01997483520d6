package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"arena-survival/internal/api"
	"arena-survival/internal/config"
	"arena-survival/internal/render"
	"arena-survival/internal/sim"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("⚔️ ================================")
	log.Println("⚔️  ARENA SURVIVAL - GO ENGINE")
	log.Println("⚔️ ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server

	log.Printf("🎮 Config: %d TPS, %gx%g arena, spawn every %gs, %d enemy cap",
		simCfg.TickRate, simCfg.WorldWidth, simCfg.WorldHeight,
		simCfg.SpawnInterval, simCfg.MaxEnemies)
	log.Printf("🛡️ Resource limits: %d bodies, %d projectiles, %d attacks",
		appConfig.Limits.MaxBodies, appConfig.Limits.MaxProjectiles, appConfig.Limits.MaxAttacks)

	// Event journal
	journal := sim.NewJournal()
	if err := journal.Start(serverCfg.EventJournal); err != nil {
		log.Printf("⚠️ Event journal disabled: %v", err)
	} else if serverCfg.EventJournal != "" {
		log.Printf("📝 Event journal: %s", serverCfg.EventJournal)
	}

	// WebSocket hub for state streaming
	hub := api.NewWebSocketHub(serverCfg.AllowAllOrigins)
	go hub.Run()

	// Simulation engine: events go to the journal and to live clients
	engine, err := sim.NewEngine(simCfg, appConfig.Limits, sim.MultiSink{journal, hub.EventSink()})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	hub.StartBroadcastLoop(engine)

	// Tick latency histogram and journal gauges
	engine.SetTickObserver(api.RecordTick)
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			api.UpdateJournalStats(journal.Stats())
		}
	}()

	// Debug server (pprof + metrics on localhost)
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Engine:      engine,
		Hub:         hub,
		RenderFrame: render.Frame,
	})

	// Tick loop
	runCtx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := engine.Run(runCtx); err != nil && err != context.Canceled {
			log.Printf("⚠️ Engine stopped: %v", err)
		}
	}()
	log.Println("✅ Simulation engine started")

	// HTTP server
	addr := ":" + strconv.Itoa(serverCfg.Port)
	server := &http.Server{Addr: addr, Handler: router}
	go func() {
		log.Printf("🌐 API server on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}

	journal.Stop()
	log.Printf("🏁 Run ended after %d ticks, %d kills", engine.Tick(), engine.Kills())
}
