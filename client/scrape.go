package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"tileduel/game"
)

// The game page's first inline script assigns its state in these exact
// textual shapes.
var (
	boardRe   = regexp.MustCompile(`const boardData = (\{.*?\});`)
	turnRe    = regexp.MustCompile(`let currentTurn = (\d+);`)
	statusRe  = regexp.MustCompile(`const gameStatus = '(\w+)';`)
	p1ColorRe = regexp.MustCompile(`const player1Color = '(\w*)';`)
	p2ColorRe = regexp.MustCompile(`const player2Color = '(\w*)';`)
	p1IDRe    = regexp.MustCompile(`const player1Id = (\d+);`)
	p2IDRe    = regexp.MustCompile(`const player2Id = (\d+|null);`)
	gameIDRe  = regexp.MustCompile(`const gameId = (\d+);`)
)

var errNoScript = errors.New("page has no script element")

// firstScript returns the text of the document's first <script> element.
// An external script with no body yields "".
func firstScript(page string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return "", errNoScript
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "script" {
				continue
			}
			if z.Next() == html.TextToken {
				return string(z.Text()), nil
			}
			return "", nil
		}
	}
}

// ParseObservation extracts the board, turn and status from a game page.
// Values that are missing are left nil; a board that is present but does
// not decode is an error.
func ParseObservation(page string) (Observation, error) {
	var obs Observation
	script, err := firstScript(page)
	if err != nil {
		return obs, err
	}
	if m := boardRe.FindStringSubmatch(script); m != nil {
		var b game.Board
		if err := json.Unmarshal([]byte(m[1]), &b); err != nil {
			return obs, fmt.Errorf("board data: %w", err)
		}
		obs.Grid = &b.Grid
	}
	if m := turnRe.FindStringSubmatch(script); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return obs, fmt.Errorf("current turn: %w", err)
		}
		obs.Turn = &n
	}
	if m := statusRe.FindStringSubmatch(script); m != nil {
		st := game.Status(m[1])
		obs.Status = &st
	}
	return obs, nil
}

// ParseBootstrap extracts every page global needed to start a client.
// Unlike ParseObservation, all of them must be present.
func ParseBootstrap(page string) (*game.Snapshot, error) {
	obs, err := ParseObservation(page)
	if err != nil {
		return nil, err
	}
	if obs.Grid == nil || obs.Turn == nil || obs.Status == nil {
		return nil, errors.New("page is missing board, turn or status")
	}
	script, err := firstScript(page)
	if err != nil {
		return nil, err
	}
	find := func(re *regexp.Regexp, name string) (string, error) {
		m := re.FindStringSubmatch(script)
		if m == nil {
			return "", fmt.Errorf("page is missing %s", name)
		}
		return m[1], nil
	}

	snap := &game.Snapshot{
		Board:       game.Board{Grid: *obs.Grid},
		CurrentTurn: *obs.Turn,
		Status:      *obs.Status,
	}
	if snap.Player1Color, err = find(p1ColorRe, "player1Color"); err != nil {
		return nil, err
	}
	if snap.Player2Color, err = find(p2ColorRe, "player2Color"); err != nil {
		return nil, err
	}
	raw, err := find(p1IDRe, "player1Id")
	if err != nil {
		return nil, err
	}
	if snap.Player1ID, err = strconv.Atoi(raw); err != nil {
		return nil, fmt.Errorf("player1Id: %w", err)
	}
	if raw, err = find(p2IDRe, "player2Id"); err != nil {
		return nil, err
	}
	if raw != "null" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("player2Id: %w", err)
		}
		snap.Player2ID = &id
	}
	if raw, err = find(gameIDRe, "gameId"); err != nil {
		return nil, err
	}
	if snap.GameID, err = strconv.Atoi(raw); err != nil {
		return nil, fmt.Errorf("gameId: %w", err)
	}
	return snap, nil
}
