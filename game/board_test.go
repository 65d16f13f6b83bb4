package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyRowsJSON(rows, cols int) string {
	row := "[" + strings.TrimSuffix(strings.Repeat("0,", cols), ",") + "]"
	return "[" + strings.TrimSuffix(strings.Repeat(row+",", rows), ",") + "]"
}

func TestBoardJSONShape(t *testing.T) {
	var b Board
	b.Grid[3][4] = Player2
	b.Grid[9][0] = Blocked

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), `{"grid":[[0,0,0`))

	var back Board
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, b, back)
}

func TestGridRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"too few rows":   emptyRowsJSON(9, 10),
		"too many rows":  emptyRowsJSON(11, 10),
		"short row":      emptyRowsJSON(10, 9),
		"not an array":   `{"a":1}`,
		"unknown value":  strings.Replace(emptyRowsJSON(10, 10), "0", "7", 1),
		"negative value": strings.Replace(emptyRowsJSON(10, 10), "0", "-1", 1),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var g Grid
			g[0][0] = Player1
			assert.Error(t, json.Unmarshal([]byte(raw), &g))
			assert.Equal(t, Player1, g[0][0], "grid must be untouched on error")
		})
	}
}

func TestGridAccessors(t *testing.T) {
	var g Grid
	g[2][2] = Player1

	assert.True(t, g.IsEmpty(0, 0))
	assert.False(t, g.IsEmpty(2, 2))
	assert.False(t, g.IsEmpty(-1, 0))
	assert.False(t, g.IsEmpty(0, Size))
	assert.Equal(t, Blocked, g.At(Size, 0))
	assert.Equal(t, Player1, g.At(2, 2))
}

func TestStatusPolling(t *testing.T) {
	assert.True(t, StatusWaiting.Polling())
	assert.True(t, StatusActive.Polling())
	assert.False(t, StatusCompleted.Polling())
	assert.False(t, Status("abandoned").Polling())
}

func TestSnapshotPlayerFor(t *testing.T) {
	two := 8
	s := Snapshot{Player1ID: 7}
	assert.Equal(t, 1, s.PlayerFor(7))
	assert.Equal(t, 0, s.PlayerFor(8))

	s.Player2ID = &two
	assert.Equal(t, 2, s.PlayerFor(8))
	assert.Equal(t, 0, s.PlayerFor(9))
}
