package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"arena-survival/internal/sim"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full server.

func (h *routerHandlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.Snapshot()
	UpdateWorldGauges(len(snapshot.Enemies), len(snapshot.Projectiles), snapshot.Kills, snapshot.Level)
	writeJSON(w, snapshot)
}

func (h *routerHandlers) handleGetUpgrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"choices": h.engine.PendingUpgrades(),
	})
}

func (h *routerHandlers) handleConfirmUpgrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.engine.ConfirmUpgrade(req.Index); err != nil {
		switch {
		case errors.Is(err, sim.ErrNoPendingUpgrade):
			writeError(w, "No upgrade selection pending", http.StatusConflict)
		case errors.Is(err, sim.ErrBadUpgradeChoice):
			writeError(w, "Choice index out of range", http.StatusBadRequest)
		default:
			log.Printf("api: confirm upgrade failed: %v", err)
			writeError(w, "Internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.engine.SetIntent(sim.Vec2{X: req.X, Y: req.Y})
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePause(w http.ResponseWriter, r *http.Request) {
	h.engine.Pause()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleResume(w http.ResponseWriter, r *http.Request) {
	h.engine.Resume()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleFrame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	png, err := h.renderFrame(h.engine.Snapshot())
	if err != nil {
		log.Printf("api: frame render failed: %v", err)
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
