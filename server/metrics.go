package server

import (
	"net/http"
	"sync/atomic"
)

// Metrics counts server activity for monitoring and debugging.
type Metrics struct {
	GamesCreated   int64
	PlayersJoined  int64
	MovesAccepted  int64
	MovesRejected  int64
	PagesServed    int64
	StatesServed   int64
	DropsSimulated int64
	WatchersOpened int64
	WatchersClosed int64
}

func (m *Metrics) IncGamesCreated()   { atomic.AddInt64(&m.GamesCreated, 1) }
func (m *Metrics) IncPlayersJoined()  { atomic.AddInt64(&m.PlayersJoined, 1) }
func (m *Metrics) IncMovesAccepted()  { atomic.AddInt64(&m.MovesAccepted, 1) }
func (m *Metrics) IncMovesRejected()  { atomic.AddInt64(&m.MovesRejected, 1) }
func (m *Metrics) IncPagesServed()    { atomic.AddInt64(&m.PagesServed, 1) }
func (m *Metrics) IncStatesServed()   { atomic.AddInt64(&m.StatesServed, 1) }
func (m *Metrics) IncDropsSimulated() { atomic.AddInt64(&m.DropsSimulated, 1) }
func (m *Metrics) IncWatchersOpened() { atomic.AddInt64(&m.WatchersOpened, 1) }
func (m *Metrics) IncWatchersClosed() { atomic.AddInt64(&m.WatchersClosed, 1) }

// Snapshot returns a read-only copy for the HTTP endpoint.
func (m *Metrics) Snapshot() map[string]any {
	opened := atomic.LoadInt64(&m.WatchersOpened)
	closed := atomic.LoadInt64(&m.WatchersClosed)
	return map[string]any{
		"games_created":   atomic.LoadInt64(&m.GamesCreated),
		"players_joined":  atomic.LoadInt64(&m.PlayersJoined),
		"moves_accepted":  atomic.LoadInt64(&m.MovesAccepted),
		"moves_rejected":  atomic.LoadInt64(&m.MovesRejected),
		"pages_served":    atomic.LoadInt64(&m.PagesServed),
		"states_served":   atomic.LoadInt64(&m.StatesServed),
		"drops_simulated": atomic.LoadInt64(&m.DropsSimulated),
		"watchers_live":   opened - closed,
	}
}

// HandleMetrics serves the counters plus the number of games held.
// GET /metrics
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"games":   s.store.Len(),
		"metrics": s.metrics.Snapshot(),
	})
}
