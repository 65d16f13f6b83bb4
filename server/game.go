package server

import (
	"encoding/json"
	"sync"
	"time"

	"tileduel/game"
)

// Game is one match held in memory. All fields are guarded by mu; watchers
// are notified after every state change.
type Game struct {
	ID int

	mu       sync.Mutex
	player1  Seat
	player2  *Seat
	grid     game.Grid
	turn     int
	status   game.Status
	winner   int
	history  []MoveRecord
	watchers map[string]*WatchConn

	createdAt time.Time
	updatedAt time.Time
}

// NewGame creates a waiting game owned by creator.
func NewGame(id int, creator Seat) *Game {
	now := time.Now()
	return &Game{
		ID:        id,
		player1:   creator,
		turn:      1,
		status:    game.StatusWaiting,
		watchers:  make(map[string]*WatchConn),
		createdAt: now,
		updatedAt: now,
	}
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() game.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() game.Snapshot {
	s := game.Snapshot{
		GameID:       g.ID,
		Board:        game.Board{Grid: g.grid},
		CurrentTurn:  g.turn,
		Status:       g.status,
		Player1ID:    g.player1.UserID,
		Player1Color: g.player1.Color,
	}
	if g.player2 != nil {
		id := g.player2.UserID
		s.Player2ID = &id
		s.Player2Color = g.player2.Color
	}
	if w := g.winnerIDLocked(); w != 0 {
		s.WinnerID = &w
	}
	return s
}

func (g *Game) winnerIDLocked() int {
	switch g.winner {
	case 1:
		return g.player1.UserID
	case 2:
		if g.player2 != nil {
			return g.player2.UserID
		}
	}
	return 0
}

// IsPlayer reports whether userID holds a seat in the game.
func (g *Game) IsPlayer(userID int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seatOfLocked(userID) != 0
}

func (g *Game) seatOfLocked(userID int) int {
	if userID == g.player1.UserID {
		return 1
	}
	if g.player2 != nil && userID == g.player2.UserID {
		return 2
	}
	return 0
}

// Join seats userID as player 2 and starts the game.
func (g *Game) Join(userID int, color string) error {
	g.mu.Lock()
	if g.status != game.StatusWaiting || g.player2 != nil {
		g.mu.Unlock()
		return ErrNotAvailable
	}
	if userID == g.player1.UserID {
		g.mu.Unlock()
		return ErrOwnGame
	}
	if !game.ValidColor(color) {
		g.mu.Unlock()
		return ErrBadColor
	}
	if color == g.player1.Color {
		g.mu.Unlock()
		return ErrColorTaken
	}
	g.player2 = &Seat{UserID: userID, Color: color}
	g.status = game.StatusActive
	g.updatedAt = time.Now()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.broadcast(snap)
	return nil
}

// ApplyMoves validates and applies one turn for userID. Either both moves
// land or the board is left untouched.
func (g *Game) ApplyMoves(userID int, moves []game.Move) (*game.MoveResponse, error) {
	g.mu.Lock()
	seat := g.seatOfLocked(userID)
	switch {
	case seat == 0:
		g.mu.Unlock()
		return nil, ErrNotPlayer
	case g.status != game.StatusActive:
		g.mu.Unlock()
		return nil, ErrNotActive
	case g.turn != seat:
		g.mu.Unlock()
		return nil, ErrNotYourTurn
	case len(moves) != 2:
		g.mu.Unlock()
		return nil, ErrMoveCount
	}

	next := g.grid
	for _, m := range moves {
		if !game.IsValidMove(&next, m.Row, m.Col) {
			g.mu.Unlock()
			return nil, ErrInvalidMove
		}
		switch m.Type {
		case game.TilePath:
			next[m.Row][m.Col] = game.Cell(seat)
		case game.TileBlock:
			next[m.Row][m.Col] = game.Blocked
		default:
			g.mu.Unlock()
			return nil, ErrInvalidMove
		}
	}

	now := time.Now()
	g.grid = next
	g.history = append(g.history, MoveRecord{
		Number:   len(g.history) + 1,
		PlayerID: userID,
		Moves:    append([]game.Move(nil), moves...),
		At:       now,
	})
	if w := game.Winner(&g.grid); w != 0 {
		g.winner = w
		g.status = game.StatusCompleted
	} else {
		g.turn = 3 - seat
	}
	g.updatedAt = now

	board := game.Board{Grid: g.grid}
	turn := g.turn
	resp := &game.MoveResponse{
		Success:     true,
		Board:       &board,
		CurrentTurn: &turn,
		Status:      g.status,
	}
	if g.winner != 0 {
		w := g.winner
		resp.Winner = &w
	}
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.broadcast(snap)
	return resp, nil
}

// History returns a copy of the accepted turns.
func (g *Game) History() []MoveRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]MoveRecord(nil), g.history...)
}

// UpdatedAt returns the time of the last state change.
func (g *Game) UpdatedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updatedAt
}

// stateMessage is what watchers receive on every change.
type stateMessage struct {
	Type  string        `json:"type"`
	State game.Snapshot `json:"state"`
}

// broadcast pushes snap to every watcher without blocking on slow readers.
func (g *Game) broadcast(snap game.Snapshot) {
	b, err := json.Marshal(stateMessage{Type: "state", State: snap})
	if err != nil {
		Log.Errorf("game %d: marshal state: %v", g.ID, err)
		return
	}
	g.mu.Lock()
	conns := make([]*WatchConn, 0, len(g.watchers))
	for _, c := range g.watchers {
		conns = append(conns, c)
	}
	g.mu.Unlock()
	for _, c := range conns {
		c.Enqueue(b)
	}
}

// subscribe registers a watcher connection.
func (g *Game) subscribe(c *WatchConn) {
	g.mu.Lock()
	g.watchers[c.ID] = c
	g.mu.Unlock()
}

// unsubscribe removes and closes a watcher connection.
func (g *Game) unsubscribe(id string) {
	g.mu.Lock()
	c, ok := g.watchers[id]
	delete(g.watchers, id)
	g.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Watchers returns the number of live watcher connections.
func (g *Game) Watchers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.watchers)
}
