package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tileduel/game"
)

// statusFor maps game errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotPlayer):
		return http.StatusForbidden
	case errors.Is(err, errNoUser):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// lookupGame resolves {gameID} and the caller.
func (s *Server) lookupGame(w http.ResponseWriter, r *http.Request) (*Game, int, bool) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return nil, 0, false
	}
	id, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		respondError(w, http.StatusNotFound, ErrGameNotFound.Error())
		return nil, 0, false
	}
	g, err := s.store.Get(id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return nil, 0, false
	}
	return g, uid, true
}

// seatedGame is lookupGame plus a check that the caller plays in the game.
func (s *Server) seatedGame(w http.ResponseWriter, r *http.Request) (*Game, int, bool) {
	g, uid, ok := s.lookupGame(w, r)
	if !ok {
		return nil, 0, false
	}
	if !g.IsPlayer(uid) {
		respondError(w, http.StatusForbidden, ErrNotPlayer.Error())
		return nil, 0, false
	}
	return g, uid, true
}

// simulate applies the admin latency and drop settings. It returns false
// when the response has already been written.
func (s *Server) simulate(w http.ResponseWriter, r *http.Request) bool {
	drop, err := s.settings.simulate(r.Context())
	if err != nil {
		return false
	}
	if drop {
		s.metrics.IncDropsSimulated()
		respondError(w, http.StatusServiceUnavailable, "simulated drop")
		return false
	}
	return true
}

// HandleCreate opens a waiting game for the caller.
// POST /game {"color": "red"}
func (s *Server) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := s.store.Create(Seat{UserID: uid, Color: req.Color})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.IncGamesCreated()
	Log.Infof("game %d created by user %d (%s)", g.ID, uid, req.Color)
	respondJSON(w, http.StatusCreated, CreateResponse{GameID: g.ID, Status: string(game.StatusWaiting)})
}

// HandleJoin seats the caller as player 2.
// POST /game/{gameID}/join {"color": "blue"}
func (s *Server) HandleJoin(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := g.Join(uid, req.Color); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.IncPlayersJoined()
	Log.Infof("game %d: user %d joined (%s)", g.ID, uid, req.Color)
	respondJSON(w, http.StatusOK, g.Snapshot())
}

// HandleListGames returns the caller's games split into active and completed.
// GET /games
func (s *Server) HandleListGames(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	list := GameList{Active: []game.Snapshot{}, Completed: []game.Snapshot{}}
	for _, snap := range s.store.ListFor(uid) {
		switch {
		case snap.Status.Polling():
			list.Active = append(list.Active, snap)
		case snap.Status == game.StatusCompleted:
			list.Completed = append(list.Completed, snap)
		}
	}
	respondJSON(w, http.StatusOK, list)
}

// HandleState serves the structured snapshot.
// GET /game/{gameID}/state
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	g, _, ok := s.seatedGame(w, r)
	if !ok || !s.simulate(w, r) {
		return
	}
	s.metrics.IncStatesServed()
	respondJSON(w, http.StatusOK, g.Snapshot())
}

// HandleHistory lists the accepted turns.
// GET /game/{gameID}/moves
func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	g, _, ok := s.seatedGame(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, g.History())
}

// HandleMove applies the caller's two tiles.
// POST /game/{gameID}/move {"moves": [{row, col, type}, {row, col, type}]}
func (s *Server) HandleMove(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	var req game.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := g.ApplyMoves(uid, req.Moves)
	if err != nil {
		s.metrics.IncMovesRejected()
		Log.Debugf("game %d: move by user %d rejected: %v", g.ID, uid, err)
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.IncMovesAccepted()
	if resp.Status == game.StatusCompleted {
		Log.Infof("game %d completed, winner player %d", g.ID, *resp.Winner)
	}
	respondJSON(w, http.StatusOK, resp)
}

// pageTmpl renders the game page. The first inline script assigns the
// bootstrap globals in a fixed textual shape that page-scraping clients
// depend on; values are pre-rendered as template.JS so they appear verbatim.
var pageTmpl = template.Must(template.New("game").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Game {{.GameID}}</title></head>
<body>
<div id="board"></div>
<script>
const boardData = {{.Board}};
const player1Color = '{{.Player1Color}}';
const player2Color = '{{.Player2Color}}';
const player1Id = {{.Player1ID}};
const player2Id = {{.Player2ID}};
const currentUserId = {{.UserID}};
let currentTurn = {{.Turn}};
const gameStatus = '{{.Status}}';
const gameId = {{.GameID}};
</script>
<script src="/static/js/game.js"></script>
</body>
</html>
`))

type pageData struct {
	Board        template.JS
	Player1Color string
	Player2Color string
	Player1ID    template.JS
	Player2ID    template.JS
	UserID       template.JS
	Turn         template.JS
	Status       string
	GameID       template.JS
}

// HandlePage serves the game page with the embedded script state.
// GET /game/{gameID}
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := s.seatedGame(w, r)
	if !ok || !s.simulate(w, r) {
		return
	}
	snap := g.Snapshot()
	board, err := json.Marshal(snap.Board)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "encode board")
		return
	}
	p2 := "null"
	if snap.Player2ID != nil {
		p2 = strconv.Itoa(*snap.Player2ID)
	}
	data := pageData{
		Board:        template.JS(board),
		Player1Color: snap.Player1Color,
		Player2Color: snap.Player2Color,
		Player1ID:    template.JS(strconv.Itoa(snap.Player1ID)),
		Player2ID:    template.JS(p2),
		UserID:       template.JS(strconv.Itoa(uid)),
		Turn:         template.JS(strconv.Itoa(snap.CurrentTurn)),
		Status:       string(snap.Status),
		GameID:       template.JS(strconv.Itoa(snap.GameID)),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		Log.Errorf("game %d: render page: %v", g.ID, err)
		return
	}
	s.metrics.IncPagesServed()
}
