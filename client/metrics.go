package client

import "sync/atomic"

// Metrics counts what the client did during a session. They are logged on
// exit.
type Metrics struct {
	Polls          int64 // ticks that merged a result
	PollFailures   int64
	TicksSkipped   int64 // a previous tick was still in flight
	StaleDiscarded int64 // a local write landed during the fetch
	Reloads        int64
	ReloadFailures int64
	Submits        int64
	SubmitFailures int64
	Nudges         int64
}

func (m *Metrics) IncPolls()          { atomic.AddInt64(&m.Polls, 1) }
func (m *Metrics) IncPollFailures()   { atomic.AddInt64(&m.PollFailures, 1) }
func (m *Metrics) IncTicksSkipped()   { atomic.AddInt64(&m.TicksSkipped, 1) }
func (m *Metrics) IncStaleDiscarded() { atomic.AddInt64(&m.StaleDiscarded, 1) }
func (m *Metrics) IncReloads()        { atomic.AddInt64(&m.Reloads, 1) }
func (m *Metrics) IncReloadFailures() { atomic.AddInt64(&m.ReloadFailures, 1) }
func (m *Metrics) IncSubmits()        { atomic.AddInt64(&m.Submits, 1) }
func (m *Metrics) IncSubmitFailures() { atomic.AddInt64(&m.SubmitFailures, 1) }
func (m *Metrics) IncNudges()         { atomic.AddInt64(&m.Nudges, 1) }

// Snapshot returns a read-only copy.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"polls":           atomic.LoadInt64(&m.Polls),
		"poll_failures":   atomic.LoadInt64(&m.PollFailures),
		"ticks_skipped":   atomic.LoadInt64(&m.TicksSkipped),
		"stale_discarded": atomic.LoadInt64(&m.StaleDiscarded),
		"reloads":         atomic.LoadInt64(&m.Reloads),
		"reload_failures": atomic.LoadInt64(&m.ReloadFailures),
		"submits":         atomic.LoadInt64(&m.Submits),
		"submit_failures": atomic.LoadInt64(&m.SubmitFailures),
		"nudges":          atomic.LoadInt64(&m.Nudges),
	}
}
