package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// Settings are runtime knobs for exercising clients against a slow or
// lossy server. They apply to the page and state routes only.
type Settings struct {
	mu                 sync.RWMutex
	simulateDelayMinMs int
	simulateDelayMaxMs int
	simulateDropProb   float64
	rnd                *rand.Rand
}

// NewSettings returns settings with no simulated latency or drops.
func NewSettings() *Settings {
	return &Settings{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// settingsView is the JSON shape of GET/POST /admin/config.
type settingsView struct {
	SimulateDelayMinMs *int     `json:"simulateDelayMinMs,omitempty"`
	SimulateDelayMaxMs *int     `json:"simulateDelayMaxMs,omitempty"`
	SimulateDropProb   *float64 `json:"simulateDropProb,omitempty"`
}

// simulate sleeps for the configured delay and reports whether the request
// should be dropped. It returns early with the context's error if cancelled.
func (s *Settings) simulate(ctx context.Context) (drop bool, err error) {
	s.mu.Lock()
	lo, hi := s.simulateDelayMinMs, s.simulateDelayMaxMs
	delay := lo
	if hi > lo {
		delay = lo + s.rnd.Intn(hi-lo+1)
	}
	drop = s.simulateDropProb > 0 && s.rnd.Float64() < s.simulateDropProb
	s.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(time.Duration(delay) * time.Millisecond)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return drop, nil
}

// HandleAdminConfig reads or partially updates the simulation settings.
// GET /admin/config returns the current values.
// POST /admin/config with a JSON body updates the fields present.
func (s *Server) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	st := s.settings
	switch r.Method {
	case http.MethodGet:
		st.mu.RLock()
		lo, hi, p := st.simulateDelayMinMs, st.simulateDelayMaxMs, st.simulateDropProb
		st.mu.RUnlock()
		respondJSON(w, http.StatusOK, settingsView{SimulateDelayMinMs: &lo, SimulateDelayMaxMs: &hi, SimulateDropProb: &p})
	case http.MethodPost:
		var body settingsView
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid json")
			return
		}
		st.mu.Lock()
		lo, hi, p := st.simulateDelayMinMs, st.simulateDelayMaxMs, st.simulateDropProb
		if body.SimulateDelayMinMs != nil {
			lo = *body.SimulateDelayMinMs
		}
		if body.SimulateDelayMaxMs != nil {
			hi = *body.SimulateDelayMaxMs
		}
		if body.SimulateDropProb != nil {
			p = *body.SimulateDropProb
		}
		if lo < 0 || hi < 0 || (hi != 0 && hi < lo) || p < 0 || p > 1 {
			st.mu.Unlock()
			respondError(w, http.StatusBadRequest, "invalid settings")
			return
		}
		st.simulateDelayMinMs, st.simulateDelayMaxMs, st.simulateDropProb = lo, hi, p
		st.mu.Unlock()
		respondJSON(w, http.StatusOK, map[string]any{"ok": true})
		Log.Infof("config updated: delay=[%d,%d] drop=%.2f", lo, hi, p)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
