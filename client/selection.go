package client

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"tileduel/game"
)

// ReloadDelay is how long a finished game stays on screen before the client
// reloads it.
const ReloadDelay = time.Second

const (
	msgSelectionFull = "You can only place 2 tiles per turn!"
	msgInvalidMove   = "Invalid move!"
	msgSubmitFailed  = "Error submitting move: "
)

var errIncompleteResponse = errors.New("response is missing board or turn")

// Submitter sends a turn's moves to the server.
type Submitter interface {
	SubmitMoves(ctx context.Context, moves []game.Move) (*game.MoveResponse, error)
}

// ReloadScheduler arms a delayed reload.
type ReloadScheduler interface {
	ScheduleReload(d time.Duration) bool
}

// Selector owns the pending selection and the submit path.
type Selector struct {
	state  *State
	api    Submitter
	notify Notifier
	view   Refresher
	reload ReloadScheduler
	env    Env

	submitting atomic.Bool
}

// NewSelector returns a Selector writing into state.
func NewSelector(state *State, api Submitter, notify Notifier, view Refresher, reload ReloadScheduler, env Env) *Selector {
	return &Selector{state: state, api: api, notify: notify, view: view, reload: reload, env: env}
}

// Toggle selects or deselects (row, col). Occupied cells are ignored and a
// third selection is refused with a warning.
func (s *Selector) Toggle(row, col int) {
	switch s.state.toggle(row, col) {
	case toggleFull:
		s.notify.Notify(msgSelectionFull)
	case toggleAdded, toggleRemoved:
		s.view.Refresh()
	}
}

// Clear drops the whole selection.
func (s *Selector) Clear() {
	s.state.clearSelection()
	s.view.Refresh()
}

// SetTileType picks the type used for cells selected from now on.
func (s *Selector) SetTileType(t game.TileType) {
	if !t.Valid() {
		return
	}
	s.state.setTileType(t)
	s.view.Refresh()
}

// CycleTileType switches between path and block.
func (s *Selector) CycleTileType() {
	if s.state.currentTileType() == game.TilePath {
		s.SetTileType(game.TileBlock)
		return
	}
	s.SetTileType(game.TilePath)
}

// CanSubmit reports whether exactly MaxSelection cells are selected.
func (s *Selector) CanSubmit() bool {
	return len(s.state.Selection()) == MaxSelection
}

// Submit sends the selection. It returns true when the server accepted the
// moves. On any failure the user is told why and the selection is kept.
func (s *Selector) Submit(ctx context.Context) bool {
	moves := s.state.Selection()
	if len(moves) != MaxSelection {
		return false
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return false
	}
	defer s.submitting.Store(false)

	s.env.Metrics.IncSubmits()
	resp, err := s.api.SubmitMoves(ctx, moves)
	if err == nil && resp.Success && (resp.Board == nil || resp.CurrentTurn == nil) {
		err = errIncompleteResponse
	}
	if err != nil {
		s.env.Metrics.IncSubmitFailures()
		s.env.Log.Warnf("submit moves: %v", err)
		s.notify.Notify(msgSubmitFailed + err.Error())
		return false
	}
	if !resp.Success {
		s.env.Metrics.IncSubmitFailures()
		msg := resp.Error
		if msg == "" {
			msg = msgInvalidMove
		}
		s.env.Log.Infof("move rejected: %s", msg)
		s.notify.Notify(msg)
		return false
	}

	s.state.ApplySubmit(resp.Board.Grid, *resp.CurrentTurn)
	s.view.Refresh()
	if resp.Status == game.StatusCompleted {
		s.env.Log.Info("game completed, reloading shortly")
		s.reload.ScheduleReload(ReloadDelay)
	}
	return true
}
