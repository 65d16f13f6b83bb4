package client

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileduel/config"
	"tileduel/game"
)

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 20)
	t.Cleanup(screen.Fini)
	return screen
}

func screenText(s tcell.SimulationScreen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestAppPlaysATurn(t *testing.T) {
	for _, src := range []config.Source{config.SourceJSON, config.SourcePage} {
		t.Run(string(src), func(t *testing.T) {
			_, ts, g := liveGame(t)
			screen := simScreen(t)
			cfg := &config.Client{
				ServerURL:    ts.URL,
				GameID:       g.ID,
				UserID:       1,
				Source:       src,
				PollInterval: time.Second,
				Watch:        true,
			}
			env, _ := testEnv(t)
			app, err := newApp(cfg, screen, ts.Client(), env)
			require.NoError(t, err)

			done := make(chan error, 1)
			go func() { done <- app.Run(context.Background()) }()
			require.Eventually(t, func() bool {
				return strings.Contains(screenText(screen), "Turn: Player 1 (you)")
			}, time.Second, 5*time.Millisecond)

			screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
			screen.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
			screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
			screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
			require.Eventually(t, func() bool {
				return g.Snapshot().CurrentTurn == 2
			}, time.Second, 5*time.Millisecond)

			snap := g.Snapshot()
			assert.Equal(t, game.Player1, snap.Board.Grid[0][0])
			assert.Equal(t, game.Player1, snap.Board.Grid[1][0])

			screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("app did not quit")
			}
			assert.EqualValues(t, 1, app.Metrics().Snapshot()["reloads"])
		})
	}
}

func TestAppFailsWhenGameCannotLoad(t *testing.T) {
	_, ts, g := liveGame(t)
	cfg := &config.Client{
		ServerURL:    ts.URL,
		GameID:       g.ID + 10,
		UserID:       1,
		Source:       config.SourceJSON,
		PollInterval: time.Second,
	}
	env, _ := testEnv(t)
	app, err := newApp(cfg, simScreen(t), ts.Client(), env)
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load game")
}
