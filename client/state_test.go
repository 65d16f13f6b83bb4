package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileduel/game"
)

func TestStateReset(t *testing.T) {
	s := NewState()
	s.toggle(0, 0)
	s.setTileType(game.TileBlock)

	snap := activeSnapshot()
	snap.Board.Grid[1][1] = game.Player2
	s.Reset(snap, 2)

	v := s.View()
	assert.Equal(t, game.Player2, v.Grid[1][1])
	assert.Equal(t, 1, v.Turn)
	assert.Equal(t, game.StatusActive, v.Status)
	assert.Empty(t, v.Selection)
	assert.Equal(t, game.TilePath, v.TileType)
	assert.Equal(t, Identity{
		GameID: 7, UserID: 2,
		Player1ID: 1, Player2ID: 2,
		Player1Color: "red", Player2Color: "blue",
	}, v.Identity)
}

func TestStateResetWaitingGame(t *testing.T) {
	snap := activeSnapshot()
	snap.Status = game.StatusWaiting
	snap.Player2ID = nil
	snap.Player2Color = ""

	s := NewState()
	s.Reset(snap, 1)
	assert.Zero(t, s.View().Identity.Player2ID)
}

func TestToggle(t *testing.T) {
	s := activeState()

	assert.Equal(t, toggleAdded, s.toggle(3, 4))
	assert.Equal(t, []game.Move{{Row: 3, Col: 4, Type: game.TilePath}}, s.Selection())

	assert.Equal(t, toggleRemoved, s.toggle(3, 4))
	assert.Empty(t, s.Selection())

	s.setTileType(game.TileBlock)
	assert.Equal(t, toggleAdded, s.toggle(0, 0))
	assert.Equal(t, toggleAdded, s.toggle(0, 1))
	assert.Equal(t, toggleFull, s.toggle(0, 2))
	assert.Len(t, s.Selection(), 2)
	assert.Equal(t, game.TileBlock, s.Selection()[1].Type)
}

func TestToggleIgnoresOccupiedAndOffBoard(t *testing.T) {
	snap := activeSnapshot()
	snap.Board.Grid[2][2] = game.Blocked
	s := NewState()
	s.Reset(snap, 1)

	assert.Equal(t, toggleIgnored, s.toggle(2, 2))
	assert.Equal(t, toggleIgnored, s.toggle(-1, 0))
	assert.Equal(t, toggleIgnored, s.toggle(0, game.Size))
	assert.Empty(t, s.Selection())
}

func TestToggleOffKeepsOrder(t *testing.T) {
	s := activeState()
	s.toggle(1, 1)
	s.toggle(2, 2)
	s.toggle(1, 1)
	s.toggle(3, 3)
	assert.Equal(t, []game.Move{
		{Row: 2, Col: 2, Type: game.TilePath},
		{Row: 3, Col: 3, Type: game.TilePath},
	}, s.Selection())
}

func TestMerge(t *testing.T) {
	t.Run("replaces grid and turn", func(t *testing.T) {
		s := activeState()
		var g game.Grid
		g[5][5] = game.Player1

		res := s.Merge(s.Revision(), Observation{Grid: &g, Turn: ptr(2), Status: ptr(game.StatusActive)})
		assert.Equal(t, MergeResult{TurnChanged: true}, res)
		v := s.View()
		assert.Equal(t, game.Player1, v.Grid[5][5])
		assert.Equal(t, 2, v.Turn)
	})

	t.Run("status change is reported, not applied", func(t *testing.T) {
		s := activeState()
		res := s.Merge(s.Revision(), Observation{Status: ptr(game.StatusCompleted)})
		assert.True(t, res.StatusChanged)
		assert.Equal(t, game.StatusActive, s.Status())
	})

	t.Run("missing values are left alone", func(t *testing.T) {
		s := activeState()
		s.ApplySubmit(game.Grid{0: {0: game.Player1}}, 1)
		res := s.Merge(s.Revision(), Observation{})
		assert.Equal(t, MergeResult{}, res)
		assert.Equal(t, game.Player1, s.View().Grid[0][0])
	})

	t.Run("stale revision is discarded", func(t *testing.T) {
		s := activeState()
		rev := s.Revision()
		var won game.Grid
		won[0][0] = game.Player1
		s.ApplySubmit(won, 2)

		var old game.Grid
		res := s.Merge(rev, Observation{Grid: &old, Turn: ptr(1)})
		assert.True(t, res.Stale)
		v := s.View()
		assert.Equal(t, game.Player1, v.Grid[0][0])
		assert.Equal(t, 2, v.Turn)
	})

	t.Run("filled cells drop out of the selection", func(t *testing.T) {
		s := activeState()
		s.toggle(4, 4)
		s.toggle(4, 5)
		var g game.Grid
		g[4][4] = game.Player2

		s.Merge(s.Revision(), Observation{Grid: &g})
		assert.Equal(t, []game.Move{{Row: 4, Col: 5, Type: game.TilePath}}, s.Selection())
	})
}

func TestApplySubmitClearsSelection(t *testing.T) {
	s := activeState()
	s.toggle(0, 0)
	s.toggle(0, 1)
	rev := s.Revision()

	var g game.Grid
	g[0][0], g[0][1] = game.Player1, game.Player1
	s.ApplySubmit(g, 2)

	v := s.View()
	require.Empty(t, v.Selection)
	assert.Equal(t, 2, v.Turn)
	assert.Equal(t, g, v.Grid)
	assert.Greater(t, s.Revision(), rev)
}
