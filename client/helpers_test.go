package client

import (
	"context"
	"sync"
	"testing"

	"github.com/benbjohnson/clock"

	"tileduel/applog"
	"tileduel/game"
)

// recorder stands in for the screen: it counts refreshes and keeps notices.
type recorder struct {
	mu        sync.Mutex
	refreshes int
	notices   []string
}

func (r *recorder) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *recorder) refreshCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes
}

func (r *recorder) noticeList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// fakeSource serves whatever its funcs return.
type fakeSource struct {
	observe   func(ctx context.Context) (Observation, error)
	bootstrap func(ctx context.Context) (*game.Snapshot, error)
}

func (f *fakeSource) Observe(ctx context.Context) (Observation, error) {
	return f.observe(ctx)
}

func (f *fakeSource) Bootstrap(ctx context.Context) (*game.Snapshot, error) {
	return f.bootstrap(ctx)
}

func testEnv(t *testing.T) (Env, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	return Env{Log: applog.Nop(), Clock: mock, Metrics: &Metrics{}}, mock
}

// activeSnapshot is game 7: user 1 (red) against user 2 (blue), player 1 to
// move on an empty board.
func activeSnapshot() *game.Snapshot {
	p2 := 2
	return &game.Snapshot{
		GameID:       7,
		CurrentTurn:  1,
		Status:       game.StatusActive,
		Player1ID:    1,
		Player2ID:    &p2,
		Player1Color: "red",
		Player2Color: "blue",
	}
}

// activeState is activeSnapshot loaded for user 1.
func activeState() *State {
	s := NewState()
	s.Reset(activeSnapshot(), 1)
	return s
}

func ptr[T any](v T) *T { return &v }
