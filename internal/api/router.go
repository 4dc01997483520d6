package api

import (
	"arena-survival/internal/sim"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineInterface defines the simulation engine methods used by the API.
// This interface enables mocking for tests without spinning up the full
// tick loop. Keep this minimal - only include methods the API layer
// actually calls.
type EngineInterface interface {
	// Snapshot returns an immutable copy of the visible world
	Snapshot() sim.Snapshot
	// SetIntent replaces the player's movement intent
	SetIntent(intent sim.Vec2)
	// ConfirmUpgrade applies the pending upgrade choice at index
	ConfirmUpgrade(index int) error
	// PendingUpgrades returns the open upgrade selection, empty when none
	PendingUpgrades() []sim.ChoiceView
	// Pause freezes the simulation
	Pause()
	// Resume unfreezes a paused simulation
	Resume()
}

// RenderFunc draws a snapshot into an encoded PNG. Wired from the
// render package so the API layer carries no drawing dependency.
type RenderFunc func(sim.Snapshot) ([]byte, error)

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the simulation engine (required)
	Engine EngineInterface

	// Hub serves /ws when set; the route is omitted when nil
	Hub *WebSocketHub

	// RenderFrame serves /debug/frame.png when set
	RenderFrame RenderFunc

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses
	// DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, local development origins are allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks and quiet tests).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router.
type routerHandlers struct {
	engine      EngineInterface
	renderFrame RenderFunc
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// No network listeners are opened here, which makes the router safe to
// use in tests with httptest.NewServer. The only background work is the
// rate limiter's cleanup loop, and only when no pre-built RateLimiter
// was supplied.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - order matters
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine:      cfg.Engine,
		renderFrame: cfg.RenderFrame,
	}

	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/upgrades", h.handleGetUpgrades)
		r.Post("/upgrades/confirm", h.handleConfirmUpgrade)
		r.Post("/intent", h.handleIntent)
		r.Post("/pause", h.handlePause)
		r.Post("/resume", h.handleResume)
	})

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket)
	}

	if cfg.RenderFrame != nil {
		r.Get("/debug/frame.png", h.handleFrame)
	}

	return r
}
