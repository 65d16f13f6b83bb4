package game

// Status is the lifecycle phase of a game as reported by the server.
// Unknown words are carried through unchanged.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Polling reports whether clients should keep reconciling in this phase.
func (s Status) Polling() bool {
	return s == StatusWaiting || s == StatusActive
}

// TileType is what a move places on an empty cell.
type TileType string

const (
	TilePath  TileType = "path"
	TileBlock TileType = "block"
)

// Valid reports whether t is a known tile type.
func (t TileType) Valid() bool { return t == TilePath || t == TileBlock }

// Colors players may pick when creating or joining a game.
var Colors = []string{"red", "purple", "blue"}

// ValidColor reports whether name is one of Colors.
func ValidColor(name string) bool {
	for _, c := range Colors {
		if c == name {
			return true
		}
	}
	return false
}

// Move is one tile placement.
type Move struct {
	Row  int      `json:"row"`
	Col  int      `json:"col"`
	Type TileType `json:"type"`
}

// MoveRequest is the body of POST /game/{id}/move.
type MoveRequest struct {
	Moves []Move `json:"moves"`
}

// MoveResponse is the reply to a move submission. Only Error is set on failure.
type MoveResponse struct {
	Success     bool   `json:"success"`
	Board       *Board `json:"board,omitempty"`
	CurrentTurn *int   `json:"current_turn,omitempty"`
	Winner      *int   `json:"winner,omitempty"`
	Status      Status `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Snapshot is the structured state served by GET /game/{id}/state.
type Snapshot struct {
	GameID       int    `json:"game_id"`
	Board        Board  `json:"board"`
	CurrentTurn  int    `json:"current_turn"`
	Status       Status `json:"status"`
	Player1ID    int    `json:"player1_id"`
	Player2ID    *int   `json:"player2_id"`
	Player1Color string `json:"player1_color"`
	Player2Color string `json:"player2_color"`
	WinnerID     *int   `json:"winner_id,omitempty"`
}

// PlayerFor returns 1 or 2 for the given user, or 0 if they are not seated.
func (s *Snapshot) PlayerFor(userID int) int {
	switch {
	case userID == s.Player1ID:
		return 1
	case s.Player2ID != nil && userID == *s.Player2ID:
		return 2
	}
	return 0
}
