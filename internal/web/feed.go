package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Websocket settings.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// stateMessage is the only message the feed sends.
type stateMessage struct {
	Type  string      `json:"type"`
	State types.State `json:"state"`
}

// feed fans store snapshots out to websocket clients.
type feed struct {
	log    logrus.FieldLogger
	cancel func()

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client holds the latest undelivered snapshot for one connection. A slow
// client skips intermediate snapshots; every message carries the whole
// state.
type client struct {
	conn   *websocket.Conn
	notify chan struct{}
	done   chan struct{}

	mu     sync.Mutex
	latest *types.State
	closed bool
}

func newFeed(log logrus.FieldLogger) *feed {
	return &feed{
		log:     log,
		cancel:  func() {},
		clients: make(map[*client]struct{}),
	}
}

func (f *feed) broadcast(st types.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		c.offer(st)
	}
}

func (f *feed) add(c *client) {
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
}

func (f *feed) remove(c *client) {
	f.mu.Lock()
	delete(f.clients, c)
	f.mu.Unlock()
	c.close()
}

func (f *feed) closeAll() {
	f.mu.Lock()
	clients := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

// size returns the number of connected clients.
func (f *feed) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (c *client) offer(st types.State) {
	c.mu.Lock()
	c.latest = &st
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *client) take() *types.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.latest
	c.latest = nil
	return st
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// handleWS upgrades the request, sends the current snapshot and then every
// later snapshot until the client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &client{
		conn:   conn,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.feed.add(c)
	// Register before taking the first snapshot so no change is missed.
	c.offer(s.inv.Snapshot())
	s.log.WithField("remote", r.RemoteAddr).Info("websocket client connected")

	go s.writePump(c)
	s.readPump(c)
}

// readPump discards client messages and detects disconnects.
func (s *Server) readPump(c *client) {
	defer func() {
		s.feed.remove(c)
		s.log.Info("websocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

// writePump sends snapshots and pings until the client is closed.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			s.log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.notify:
			st := c.take()
			if st == nil {
				continue
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.conn.WriteJSON(stateMessage{Type: "state", State: *st}); err != nil {
				s.log.WithError(err).Debug("write state failed")
				s.feed.remove(c)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.log.WithError(err).Debug("ping failed")
				s.feed.remove(c)
				return
			}
		}
	}
}
