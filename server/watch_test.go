package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileduel/game"
)

func TestWatchReceivesStateOnMove(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startGame()

	wsURL := "ws" + strings.TrimPrefix(ts.ts.URL, "http") + "/game/" + strconv.Itoa(id) + "/ws"
	hdr := http.Header{}
	hdr.Set(UserHeader, "2")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	require.NoError(t, err)
	defer conn.Close()

	g, err := ts.srv.store.Get(id)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return g.Watchers() == 1 }, time.Second, 10*time.Millisecond)

	resp, raw := ts.do(http.MethodPost, "/game/"+strconv.Itoa(id)+"/move", 1,
		game.MoveRequest{Moves: []game.Move{path(2, 2), path(2, 3)}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var sm stateMessage
	require.NoError(t, json.Unmarshal(msg, &sm))
	assert.Equal(t, "state", sm.Type)
	assert.Equal(t, 2, sm.State.CurrentTurn)
	assert.Equal(t, game.Player1, sm.State.Board.Grid[2][3])

	conn.Close()
	assert.Eventually(t, func() bool { return g.Watchers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchRejectsNonPlayers(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startGame()

	wsURL := "ws" + strings.TrimPrefix(ts.ts.URL, "http") + "/game/" + strconv.Itoa(id) + "/ws?user=77"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWatchConnCloseIsIdempotent(t *testing.T) {
	c := &WatchConn{ID: "x", send: make(chan []byte, 1)}
	c.Enqueue([]byte("a"))
	c.Enqueue([]byte("dropped"))
	c.Close()
	c.Close()
	c.Enqueue([]byte("after close"))

	msg, ok := <-c.send
	assert.True(t, ok)
	assert.Equal(t, "a", string(msg))
	_, ok = <-c.send
	assert.False(t, ok)
}
