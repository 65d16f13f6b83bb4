package client

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Reloader rebuilds the whole client state from a fresh snapshot. It is the
// terminal equivalent of reloading the game page.
type Reloader struct {
	state  *State
	source StateSource
	userID int
	view   Refresher
	env    Env

	mu        sync.Mutex
	scheduled bool
	requests  chan struct{}
}

// NewReloader returns a Reloader for userID.
func NewReloader(state *State, source StateSource, userID int, view Refresher, env Env) *Reloader {
	return &Reloader{
		state:    state,
		source:   source,
		userID:   userID,
		view:     view,
		env:      env,
		requests: make(chan struct{}, 1),
	}
}

// RequestReload asks Run to reload as soon as possible. Requests coalesce,
// and are ignored while a delayed reload is already scheduled.
func (r *Reloader) RequestReload() {
	r.mu.Lock()
	scheduled := r.scheduled
	r.mu.Unlock()
	if scheduled {
		return
	}
	r.signal()
}

// ScheduleReload arms a single reload after d. It reports false if one is
// already pending.
func (r *Reloader) ScheduleReload(d time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduled {
		return false
	}
	r.scheduled = true
	r.env.Clock.AfterFunc(d, r.signal)
	return true
}

// Pending reports whether a delayed reload is armed.
func (r *Reloader) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduled
}

func (r *Reloader) signal() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

// Reload fetches a bootstrap snapshot and replaces the client state with it.
func (r *Reloader) Reload(ctx context.Context) error {
	snap, err := r.source.Bootstrap(ctx)
	r.mu.Lock()
	r.scheduled = false
	r.mu.Unlock()
	if err != nil {
		r.env.Metrics.IncReloadFailures()
		return fmt.Errorf("reload: %w", err)
	}
	r.state.Reset(snap, r.userID)
	r.env.Metrics.IncReloads()
	r.env.Log.Infof("reloaded game %d: status=%s turn=%d", snap.GameID, snap.Status, snap.CurrentTurn)
	r.view.Refresh()
	return nil
}

// Run serves reload requests until ctx is done. Failures are logged and the
// client keeps its current state.
func (r *Reloader) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.requests:
			if err := r.Reload(ctx); err != nil && ctx.Err() == nil {
				r.env.Log.Warnf("%v", err)
			}
		}
	}
}
