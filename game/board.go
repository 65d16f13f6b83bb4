package game

import (
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"
)

// Size is the edge length of the square board.
const Size = 10

// Cell is the state of a single board position.
type Cell int

const (
	Empty Cell = iota
	Player1
	Player2
	Blocked
)

// Valid reports whether c is one of the four known cell states.
func (c Cell) Valid() bool { return c >= Empty && c <= Blocked }

// Grid is the full 10x10 board, row-major.
type Grid [Size][Size]Cell

// InBounds reports whether (row, col) addresses a cell of the grid.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the cell at (row, col); out-of-range positions read as Blocked.
func (g *Grid) At(row, col int) Cell {
	if !InBounds(row, col) {
		return Blocked
	}
	return g[row][col]
}

// IsEmpty reports whether (row, col) is on the board and unoccupied.
func (g *Grid) IsEmpty(row, col int) bool {
	return InBounds(row, col) && g[row][col] == Empty
}

// UnmarshalJSON accepts exactly Size rows of Size known cell values.
// encoding/json would silently zero-fill or truncate a fixed array.
func (g *Grid) UnmarshalJSON(b []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(b, &rows); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if len(rows) != Size {
		return fmt.Errorf("grid: want %d rows, got %d", Size, len(rows))
	}
	var out Grid
	var errs error
	for r, row := range rows {
		if len(row) != Size {
			errs = multierr.Append(errs, fmt.Errorf("grid: row %d has %d cells", r, len(row)))
			continue
		}
		for c, v := range row {
			if !v.Valid() {
				errs = multierr.Append(errs, fmt.Errorf("grid: cell (%d,%d) has unknown value %d", r, c, v))
				continue
			}
			out[r][c] = v
		}
	}
	if errs != nil {
		return errs
	}
	*g = out
	return nil
}

// Board is the wire envelope around the grid: {"grid": [[...], ...]}.
type Board struct {
	Grid Grid `json:"grid"`
}
