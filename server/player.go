package server

import (
	"errors"
	"time"

	"tileduel/game"
)

// Errors returned by game operations. Handlers map them to HTTP statuses.
var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotPlayer    = errors.New("you are not a player in this game")
	ErrNotAvailable = errors.New("game is not available")
	ErrOwnGame      = errors.New("this is your game")
	ErrBadColor     = errors.New("unknown color")
	ErrColorTaken   = errors.New("color already taken, please choose another")
	ErrNotActive    = errors.New("game is not active")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrMoveCount    = errors.New("must place exactly 2 tiles")
	ErrInvalidMove  = errors.New("invalid move")
)

// Seat is one side of a game: the user sitting there and their tile color.
type Seat struct {
	UserID int
	Color  string
}

// MoveRecord is one accepted turn in a game's history.
type MoveRecord struct {
	Number   int         `json:"number"`
	PlayerID int         `json:"player_id"`
	Moves    []game.Move `json:"moves"`
	At       time.Time   `json:"at"`
}
