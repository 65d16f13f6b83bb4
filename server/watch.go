package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WatchConn is a websocket subscriber to one game's state changes.
type WatchConn struct {
	ID string
	ws *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewWatchConn wraps ws with a buffered send queue.
func NewWatchConn(ws *websocket.Conn) *WatchConn {
	return &WatchConn{
		ID:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, 16),
	}
}

// Enqueue queues b for sending; when the queue is full the message is dropped.
// Watchers only need to learn that something changed.
func (c *WatchConn) Enqueue(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *WatchConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump drains the send queue to the socket and keeps the peer alive.
func (c *WatchConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unsubscribes when the peer goes away.
func (c *WatchConn) readPump(g *Game, m *Metrics) {
	defer func() {
		g.unsubscribe(c.ID)
		m.IncWatchersClosed()
		Log.Debugf("game %d: watcher %s left", g.ID, c.ID)
	}()
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Terminal clients send no Origin; browsers on other hosts are not expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWatch upgrades a seated player to a state-change subscription.
// GET /game/{gameID}/ws
func (s *Server) HandleWatch(w http.ResponseWriter, r *http.Request) {
	g, _, ok := s.seatedGame(w, r)
	if !ok {
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("game %d: upgrade error: %v", g.ID, err)
		return
	}
	c := NewWatchConn(ws)
	g.subscribe(c)
	s.metrics.IncWatchersOpened()
	Log.Debugf("game %d: watcher %s joined", g.ID, c.ID)

	go c.writePump()
	go c.readPump(g, s.metrics)
}
