package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"tileduel/applog"
	"tileduel/config"
	"tileduel/server"
)

// tileduel game server: HTTP routes, websocket watch channel and an
// in-memory game store.
func main() {
	cfg, err := config.LoadServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	server.Log = applog.New(applog.Options{Path: cfg.LogPath, Debug: cfg.Debug})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New().Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		server.Log.Infof("tileduel listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = multierr.Combine(srv.Shutdown(ctx), server.Log.Sync())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
