package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileduel/game"
)

func newTestReloader(t *testing.T, snap func() (*game.Snapshot, error)) (*Reloader, *State, *recorder, Env) {
	t.Helper()
	env, _ := testEnv(t)
	state := NewState()
	rec := &recorder{}
	src := &fakeSource{bootstrap: func(context.Context) (*game.Snapshot, error) { return snap() }}
	return NewReloader(state, src, 1, rec, env), state, rec, env
}

func TestReload(t *testing.T) {
	r, state, rec, env := newTestReloader(t, func() (*game.Snapshot, error) {
		return activeSnapshot(), nil
	})
	require.NoError(t, r.Reload(context.Background()))

	v := state.View()
	assert.Equal(t, game.StatusActive, v.Status)
	assert.Equal(t, 7, v.Identity.GameID)
	assert.Equal(t, 1, rec.refreshCount())
	assert.EqualValues(t, 1, env.Metrics.Snapshot()["reloads"])
}

func TestReloadFailureKeepsState(t *testing.T) {
	r, state, rec, env := newTestReloader(t, func() (*game.Snapshot, error) {
		return nil, errors.New("boom")
	})
	state.Reset(activeSnapshot(), 1)
	before := state.View()

	require.Error(t, r.Reload(context.Background()))
	assert.Equal(t, before, state.View())
	assert.Zero(t, rec.refreshCount())
	assert.EqualValues(t, 1, env.Metrics.Snapshot()["reload_failures"])
}

func TestScheduleReloadOnce(t *testing.T) {
	r, _, _, env := newTestReloader(t, func() (*game.Snapshot, error) {
		return activeSnapshot(), nil
	})
	mock := env.Clock.(interface{ Add(time.Duration) })

	require.True(t, r.ScheduleReload(ReloadDelay))
	assert.False(t, r.ScheduleReload(ReloadDelay))
	r.RequestReload()
	assert.Len(t, r.requests, 0)

	mock.Add(ReloadDelay - time.Millisecond)
	assert.Len(t, r.requests, 0)
	mock.Add(time.Millisecond)
	require.Eventually(t, func() bool { return len(r.requests) == 1 }, time.Second, time.Millisecond)
	assert.True(t, r.Pending())

	require.NoError(t, r.Reload(context.Background()))
	assert.False(t, r.Pending())
}

func TestReloaderRun(t *testing.T) {
	var loads atomic.Int32
	r, _, _, _ := newTestReloader(t, func() (*game.Snapshot, error) {
		loads.Add(1)
		return activeSnapshot(), nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.Run(ctx) }()

	r.RequestReload()
	require.Eventually(t, func() bool { return loads.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
