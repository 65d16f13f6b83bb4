package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tileduel/config"
)

// App wires one client session together.
type App struct {
	cfg *config.Client
	env Env

	State      *State
	API        *API
	Reloader   *Reloader
	Reconciler *Reconciler
	Selector   *Selector
	UI         *UI
	Watcher    *Watcher
}

// NewApp builds every component for cfg. screen must be initialised; log may
// be nil.
func NewApp(cfg *config.Client, screen tcell.Screen, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	env := Env{Log: log, Clock: clock.New(), Metrics: &Metrics{}}
	return newApp(cfg, screen, &http.Client{Timeout: 10 * time.Second}, env)
}

func newApp(cfg *config.Client, screen tcell.Screen, hc *http.Client, env Env) (*App, error) {
	api := NewAPI(cfg.ServerURL, cfg.GameID, cfg.UserID, hc)
	source, err := NewSource(cfg.Source, api)
	if err != nil {
		return nil, err
	}
	sink := NewScreenSink(screen)
	state := NewState()

	a := &App{cfg: cfg, env: env, State: state, API: api}
	a.Reloader = NewReloader(state, source, cfg.UserID, sink, env)
	a.Reconciler = NewReconciler(state, source, sink, a.Reloader, cfg.PollInterval, env)
	a.Selector = NewSelector(state, api, sink, sink, a.Reloader, env)
	a.UI = NewUI(screen, state, a.Selector, a.Reloader, env)
	if cfg.Watch {
		a.Watcher = NewWatcher(api, a.Reconciler, cfg.PollInterval, env)
	}
	return a, nil
}

// Metrics returns the session counters.
func (a *App) Metrics() *Metrics { return a.env.Metrics }

// Run loads the game and serves it until the user quits or ctx is done. The
// first load must succeed; later failures are only logged.
func (a *App) Run(ctx context.Context) error {
	if err := a.Reloader.Reload(ctx); err != nil {
		return fmt.Errorf("load game %d: %w", a.cfg.GameID, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.UI.Run(ctx)
	})
	g.Go(func() error { return a.Reconciler.Run(ctx) })
	g.Go(func() error { return a.Reloader.Run(ctx) })
	if a.Watcher != nil {
		g.Go(func() error { return a.Watcher.Run(ctx) })
	}
	return g.Wait()
}
