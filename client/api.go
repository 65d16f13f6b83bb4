package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"tileduel/game"
)

// userHeader must match the server's trusted identity header.
const userHeader = "X-User-ID"

// maxBody bounds what the client will read from any response.
const maxBody = 1 << 20

// API talks to one game on the server as one user.
type API struct {
	base   string
	gameID int
	userID int
	hc     *http.Client
}

// NewAPI returns an API for gameID at base (e.g. "http://localhost:8080").
func NewAPI(base string, gameID, userID int, hc *http.Client) *API {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &API{base: strings.TrimRight(base, "/"), gameID: gameID, userID: userID, hc: hc}
}

func (a *API) gameURL(suffix string) string {
	return a.base + "/game/" + strconv.Itoa(a.gameID) + suffix
}

// WatchURL is the websocket address of the game's change feed.
func (a *API) WatchURL() string {
	u := a.gameURL("/ws")
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Header returns the identity header sent with every request.
func (a *API) Header() http.Header {
	h := http.Header{}
	h.Set(userHeader, strconv.Itoa(a.userID))
	return h
}

func (a *API) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set(userHeader, strconv.Itoa(a.userID))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", url, err)
	}
	return resp, raw, nil
}

// StatusError is a non-2xx reply to a read.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

// Snapshot fetches the structured state from GET /game/{id}/state.
func (a *API) Snapshot(ctx context.Context) (*game.Snapshot, error) {
	url := a.gameURL("/state")
	resp, raw, err := a.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}
	var snap game.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &snap, nil
}

// Page fetches the HTML game page from GET /game/{id}.
func (a *API) Page(ctx context.Context) (string, error) {
	url := a.gameURL("")
	resp, raw, err := a.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, URL: url}
	}
	return string(raw), nil
}

// SubmitMoves posts the selection. A rejected move is not an error: the
// response comes back with Success false and the server's message, if any.
// Errors mean the request failed or the reply was not JSON.
func (a *API) SubmitMoves(ctx context.Context, moves []game.Move) (*game.MoveResponse, error) {
	body, err := json.Marshal(game.MoveRequest{Moves: moves})
	if err != nil {
		return nil, err
	}
	_, raw, err := a.do(ctx, http.MethodPost, a.gameURL("/move"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var mr game.MoveResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		return nil, fmt.Errorf("decode move response: %w", err)
	}
	return &mr, nil
}
