package client

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often the reconciler polls.
const DefaultPollInterval = 3 * time.Second

// Reconciler periodically merges server state into the local State while
// the game is waiting or active. Any status change triggers a full reload
// instead of an in-place transition.
type Reconciler struct {
	state    *State
	source   StateSource
	view     Refresher
	reloader *Reloader
	interval time.Duration
	env      Env

	inFlight atomic.Bool
	nudge    chan struct{}
}

// NewReconciler returns a Reconciler polling every interval.
func NewReconciler(state *State, source StateSource, view Refresher, reloader *Reloader, interval time.Duration, env Env) *Reconciler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Reconciler{
		state:    state,
		source:   source,
		view:     view,
		reloader: reloader,
		interval: interval,
		env:      env,
		nudge:    make(chan struct{}, 1),
	}
}

// Run ticks until ctx is done.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := r.env.Clock.Ticker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Tick(ctx)
		case <-r.nudge:
			r.Tick(ctx)
		}
	}
}

// Nudge asks for a tick now instead of at the next interval.
func (r *Reconciler) Nudge() {
	r.env.Metrics.IncNudges()
	select {
	case r.nudge <- struct{}{}:
	default:
	}
}

// Tick performs one poll. It is idle outside waiting/active, skips when a
// previous tick is still running, and drops results overtaken by a local
// write. Failures are logged and otherwise ignored.
func (r *Reconciler) Tick(ctx context.Context) {
	if !r.state.Status().Polling() {
		return
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		r.env.Metrics.IncTicksSkipped()
		return
	}
	defer r.inFlight.Store(false)

	rev := r.state.Revision()
	obs, err := r.source.Observe(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.env.Metrics.IncPollFailures()
		r.env.Log.Warnf("poll game state: %v", err)
		return
	}

	res := r.state.Merge(rev, obs)
	if res.Stale {
		r.env.Metrics.IncStaleDiscarded()
		r.env.Log.Debug("poll result overtaken by a local update, discarded")
		return
	}
	r.env.Metrics.IncPolls()
	if res.StatusChanged {
		r.env.Log.Infof("status changed from %s to %s, reloading", r.state.Status(), *obs.Status)
		r.reloader.RequestReload()
	}
	r.view.Refresh()
}
