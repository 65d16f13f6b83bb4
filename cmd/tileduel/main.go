// Command tileduel is the terminal client: it opens one game on a tileduel
// server and lets the local user play their turns.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"tileduel/applog"
	"tileduel/client"
	"tileduel/config"
)

func main() {
	cfg, err := config.LoadClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Client) (err error) {
	log := applog.New(applog.Options{Path: cfg.LogPath, Debug: cfg.Debug})
	defer func() { err = multierr.Append(err, log.Sync()) }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	screen.EnableMouse()
	defer screen.Fini()

	app, err := client.NewApp(cfg, screen, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("opening game %d on %s as user %d (source=%s)", cfg.GameID, cfg.ServerURL, cfg.UserID, cfg.Source)
	err = app.Run(ctx)
	log.Infow("session ended", "metrics", app.Metrics().Snapshot())
	return err
}
