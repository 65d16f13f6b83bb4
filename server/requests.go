package server

import (
	"errors"
	"net/http"
	"strconv"

	"tileduel/game"
)

// UserHeader carries the caller's user id. Authentication lives elsewhere;
// the server trusts this value.
const UserHeader = "X-User-ID"

// CreateRequest is the body of POST /game.
type CreateRequest struct {
	Color string `json:"color"`
}

// JoinRequest is the body of POST /game/{gameID}/join.
type JoinRequest struct {
	Color string `json:"color"`
}

// CreateResponse is returned after a game is opened.
type CreateResponse struct {
	GameID int    `json:"game_id"`
	Status string `json:"status"`
}

// GameList splits a user's games the way the dashboard shows them.
type GameList struct {
	Active    []game.Snapshot `json:"active"`
	Completed []game.Snapshot `json:"completed"`
}

var errNoUser = errors.New("missing or invalid user id")

// userID reads the caller from the X-User-ID header, or the "user" query
// parameter for websocket upgrades where headers are awkward to set.
func userID(r *http.Request) (int, error) {
	v := r.Header.Get(UserHeader)
	if v == "" {
		v = r.URL.Query().Get("user")
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, errNoUser
	}
	return id, nil
}
