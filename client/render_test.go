package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tileduel/game"
)

func TestIsMyTurn(t *testing.T) {
	id := Identity{UserID: 2, Player1ID: 1, Player2ID: 2}
	assert.False(t, IsMyTurn(1, id))
	assert.True(t, IsMyTurn(2, id))
	assert.False(t, IsMyTurn(3, id))

	waiting := Identity{UserID: 0, Player1ID: 1}
	assert.False(t, IsMyTurn(2, waiting))
}

func TestPlayerColor(t *testing.T) {
	assert.Equal(t, PlayerColor("red"), playerColors["red"])
	assert.Equal(t, colorBlocked, PlayerColor("green"))
	assert.Equal(t, colorBlocked, PlayerColor(""))
}

func TestRender(t *testing.T) {
	s := activeState()
	s.toggle(9, 9)
	v := s.View()
	v.Grid[0][0] = game.Player1
	v.Grid[0][1] = game.Player2
	v.Grid[0][2] = game.Blocked

	var clicked [][2]int
	f := Render(v, func(row, col int) { clicked = append(clicked, [2]int{row, col}) })

	assert.True(t, f.MyTurn)
	assert.True(t, f.Interactive)
	assert.False(t, f.SubmitEnabled)
	assert.Equal(t, 1, f.Placed)
	assert.Equal(t, PlayerColor("red"), f.Cells[0][0].Color)
	assert.Equal(t, PlayerColor("blue"), f.Cells[0][1].Color)
	assert.Equal(t, colorBlocked, f.Cells[0][2].Color)
	assert.Equal(t, colorEmpty, f.Cells[5][5].Color)
	assert.True(t, f.Cells[9][9].Selected)
	assert.False(t, f.Cells[5][5].Selected)

	f.Cells[4][6].OnClick()
	assert.Equal(t, [][2]int{{4, 6}}, clicked)
}

func TestRenderNotInteractive(t *testing.T) {
	tests := []struct {
		name   string
		turn   int
		status game.Status
	}{
		{"opponent's turn", 2, game.StatusActive},
		{"waiting", 1, game.StatusWaiting},
		{"completed", 1, game.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := activeState().View()
			v.Turn = tt.turn
			v.Status = tt.status
			f := Render(v, func(int, int) {})
			assert.False(t, f.Interactive)
			for r := range f.Cells {
				for c := range f.Cells[r] {
					assert.Nil(t, f.Cells[r][c].OnClick)
				}
			}
		})
	}
}

func TestRenderSubmitEnabledOnlyAtTwo(t *testing.T) {
	s := activeState()
	for i, want := range []bool{false, true} {
		s.toggle(0, i)
		assert.Equal(t, want, Render(s.View(), nil).SubmitEnabled)
	}
}
