// Package client is the terminal front end: it keeps the local view of one
// game, lets the player pick tiles, and reconciles with the server.
package client

import (
	"sync"

	"tileduel/game"
)

// MaxSelection is how many tiles a player places per turn.
const MaxSelection = 2

// Identity is who is playing and how their tiles are drawn. It changes only
// on bootstrap or reload.
type Identity struct {
	GameID       int
	UserID       int
	Player1ID    int
	Player2ID    int // 0 while the seat is empty
	Player1Color string
	Player2Color string
	WinnerID     int
}

// View is an immutable copy of State for rendering.
type View struct {
	Grid      game.Grid
	Turn      int
	Status    game.Status
	Selection []game.Move
	TileType  game.TileType
	Identity  Identity
}

// State is the client's single copy of game state. Every field has one
// writer path:
//   - grid, turn: submit success and reconciler merges
//   - status, identity: bootstrap and reload only
//   - selection, tile type: the selector
//
// rev advances on every write that must win over an in-flight poll.
type State struct {
	mu        sync.Mutex
	grid      game.Grid
	turn      int
	status    game.Status
	selection []game.Move
	tileType  game.TileType
	identity  Identity
	rev       uint64
}

// NewState returns an empty state with the path tile chosen.
func NewState() *State {
	return &State{tileType: game.TilePath}
}

// View returns a copy of the current state.
func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Grid:      s.grid,
		Turn:      s.turn,
		Status:    s.status,
		Selection: append([]game.Move(nil), s.selection...),
		TileType:  s.tileType,
		Identity:  s.identity,
	}
}

// Status returns the last status seen at bootstrap.
func (s *State) Status() game.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Revision returns the current write revision.
func (s *State) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Selection returns a copy of the pending moves.
func (s *State) Selection() []game.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Move(nil), s.selection...)
}

// Reset replaces everything from an authoritative snapshot, as a fresh page
// load would. The selection is cleared and the tile type goes back to path.
func (s *State) Reset(snap *game.Snapshot, userID int) {
	id := Identity{
		GameID:       snap.GameID,
		UserID:       userID,
		Player1ID:    snap.Player1ID,
		Player1Color: snap.Player1Color,
		Player2Color: snap.Player2Color,
	}
	if snap.Player2ID != nil {
		id.Player2ID = *snap.Player2ID
	}
	if snap.WinnerID != nil {
		id.WinnerID = *snap.WinnerID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = snap.Board.Grid
	s.turn = snap.CurrentTurn
	s.status = snap.Status
	s.identity = id
	s.selection = nil
	s.tileType = game.TilePath
	s.rev++
}

// ApplySubmit installs the board and turn returned by a successful move and
// clears the selection.
func (s *State) ApplySubmit(grid game.Grid, turn int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid
	s.turn = turn
	s.selection = nil
	s.rev++
}

// Observation is what one poll learned. Nil fields were not found.
type Observation struct {
	Grid   *game.Grid
	Turn   *int
	Status *game.Status
}

// MergeResult reports what Merge did.
type MergeResult struct {
	// Stale is set when a local write landed after the poll started; nothing
	// was applied.
	Stale         bool
	TurnChanged   bool
	StatusChanged bool
}

// Merge applies a poll taken at revision rev. The grid is replaced when
// present, the turn when it differs. A differing status is reported but not
// written; the caller reloads instead. Selected cells the new grid has
// filled are dropped.
func (s *State) Merge(rev uint64, obs Observation) MergeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev != s.rev {
		return MergeResult{Stale: true}
	}
	var res MergeResult
	if obs.Grid != nil {
		s.grid = *obs.Grid
		kept := s.selection[:0]
		for _, m := range s.selection {
			if s.grid.IsEmpty(m.Row, m.Col) {
				kept = append(kept, m)
			}
		}
		s.selection = kept
	}
	if obs.Turn != nil && *obs.Turn != s.turn {
		s.turn = *obs.Turn
		res.TurnChanged = true
	}
	if obs.Status != nil && *obs.Status != s.status {
		res.StatusChanged = true
	}
	return res
}

// toggleResult is the outcome of toggle.
type toggleResult int

const (
	toggleIgnored toggleResult = iota
	toggleAdded
	toggleRemoved
	toggleFull
)

// toggle adds or removes (row, col) from the selection.
func (s *State) toggle(row, col int) toggleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.grid.IsEmpty(row, col) {
		return toggleIgnored
	}
	for i, m := range s.selection {
		if m.Row == row && m.Col == col {
			s.selection = append(s.selection[:i:i], s.selection[i+1:]...)
			return toggleRemoved
		}
	}
	if len(s.selection) >= MaxSelection {
		return toggleFull
	}
	s.selection = append(s.selection, game.Move{Row: row, Col: col, Type: s.tileType})
	return toggleAdded
}

func (s *State) clearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

func (s *State) setTileType(t game.TileType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tileType = t
}

func (s *State) currentTileType() game.TileType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tileType
}
