package client

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// Nudger triggers an early reconciliation.
type Nudger interface {
	Nudge()
}

// Watcher listens on the game's websocket feed and nudges the reconciler on
// every push, so the opponent's moves show up before the next poll. Polling
// stays authoritative; the feed is only a hint.
type Watcher struct {
	url    string
	api    *API
	target Nudger
	retry  time.Duration
	env    Env
	dialer *websocket.Dialer
}

// NewWatcher returns a Watcher for api's game. It redials after retry when
// the connection drops.
func NewWatcher(api *API, target Nudger, retry time.Duration, env Env) *Watcher {
	return &Watcher{
		url:    api.WatchURL(),
		api:    api,
		target: target,
		retry:  retry,
		env:    env,
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
	}
}

// Run keeps a connection open until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		if err := w.watch(ctx); err != nil && ctx.Err() == nil {
			w.env.Log.Debugf("watch %s: %v", w.url, err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-w.env.Clock.After(w.retry):
		}
	}
}

func (w *Watcher) watch(ctx context.Context) error {
	conn, _, err := w.dialer.DialContext(ctx, w.url, w.api.Header())
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	w.env.Log.Debugf("watching %s", w.url)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
		w.target.Nudge()
	}
}
