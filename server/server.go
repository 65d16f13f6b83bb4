package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Log is the package logger. main replaces it with a file-backed one.
var Log = zap.NewNop().Sugar()

// Server serves the game routes over an in-memory store.
type Server struct {
	store    *Store
	settings *Settings
	metrics  *Metrics
}

// New returns a Server with an empty store.
func New() *Server {
	return &Server{
		store:    NewStore(),
		settings: NewSettings(),
		metrics:  &Metrics{},
	}
}

// Store exposes the backing store.
func (s *Server) Store() *Store { return s.store }

// Routes builds the chi router for every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(recovery)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", s.HandleMetrics)
	r.HandleFunc("/admin/config", s.HandleAdminConfig)

	r.Get("/games", s.HandleListGames)
	r.Post("/game", s.HandleCreate)
	r.Route("/game/{gameID}", func(r chi.Router) {
		r.Get("/", s.HandlePage)
		r.Get("/state", s.HandleState)
		r.Get("/moves", s.HandleHistory)
		r.Get("/ws", s.HandleWatch)
		r.Post("/join", s.HandleJoin)
		r.Post("/move", s.HandleMove)
	})
	return r
}

// respondJSON writes data as a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		Log.Errorf("encode response: %v", err)
	}
}

// respondError writes {"error": message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
