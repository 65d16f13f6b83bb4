package client

import (
	"github.com/gdamore/tcell/v2"

	"tileduel/game"
)

var (
	colorBlocked = tcell.NewRGBColor(107, 114, 128)
	colorEmpty   = tcell.NewRGBColor(17, 24, 39)

	playerColors = map[string]tcell.Color{
		"red":    tcell.NewRGBColor(239, 68, 68),
		"purple": tcell.NewRGBColor(168, 85, 247),
		"blue":   tcell.NewRGBColor(59, 130, 246),
	}
)

// PlayerColor maps a color name to its terminal color. Unknown names draw
// like a blocked cell.
func PlayerColor(name string) tcell.Color {
	if c, ok := playerColors[name]; ok {
		return c
	}
	return colorBlocked
}

// CellView is how one cell should be drawn. OnClick is nil when the cell
// does not react to input.
type CellView struct {
	Color    tcell.Color
	Selected bool
	OnClick  func()
}

// Frame is a full rendering of a View.
type Frame struct {
	Cells         [game.Size][game.Size]CellView
	Interactive   bool
	SubmitEnabled bool
	Placed        int
	TileType      game.TileType
	Turn          int
	Status        game.Status
	MyTurn        bool
	Identity      Identity
}

// IsMyTurn reports whether the viewing user holds the seat whose turn it is.
func IsMyTurn(turn int, id Identity) bool {
	switch turn {
	case 1:
		return id.UserID == id.Player1ID
	case 2:
		return id.Player2ID != 0 && id.UserID == id.Player2ID
	}
	return false
}

// Render builds a Frame from v. Cells get click handlers only while the game
// is active and it is the viewer's turn; onCell receives the coordinates.
func Render(v View, onCell func(row, col int)) Frame {
	f := Frame{
		Placed:        len(v.Selection),
		SubmitEnabled: len(v.Selection) == MaxSelection,
		TileType:      v.TileType,
		Turn:          v.Turn,
		Status:        v.Status,
		MyTurn:        IsMyTurn(v.Turn, v.Identity),
		Identity:      v.Identity,
	}
	f.Interactive = v.Status == game.StatusActive && f.MyTurn

	selected := make(map[[2]int]bool, len(v.Selection))
	for _, m := range v.Selection {
		selected[[2]int{m.Row, m.Col}] = true
	}

	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			cv := CellView{Selected: selected[[2]int{r, c}]}
			switch v.Grid[r][c] {
			case game.Player1:
				cv.Color = PlayerColor(v.Identity.Player1Color)
			case game.Player2:
				cv.Color = PlayerColor(v.Identity.Player2Color)
			case game.Blocked:
				cv.Color = colorBlocked
			default:
				cv.Color = colorEmpty
			}
			if f.Interactive && onCell != nil {
				row, col := r, c
				cv.OnClick = func() { onCell(row, col) }
			}
			f.Cells[r][c] = cv
		}
	}
	return f
}
