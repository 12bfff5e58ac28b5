// Package web exposes a read-only websocket feed of a running maze session.
// Watchers receive the level banner, a state snapshot per tick, and console
// transcript lines. They cannot send commands; anything they write is
// discarded.
package web

import (
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/scriptmaze/internal/game"
)

// Envelope frames every feed message.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ClientEnvelope is the receiving-side frame, payload left raw until the
// type is known.
type ClientEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Feed message types.
const (
	TypeLevel    = "level"
	TypeSnapshot = "snapshot"
	TypeLine     = "line"
)

// LevelInfo announces which level the watched session is playing.
type LevelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

// Feed fans session state out to any number of watchers. New watchers are
// caught up with the current level and the latest snapshot before they see
// the live stream.
type Feed struct {
	logger *log.Logger

	mu        sync.Mutex
	clients   map[*client]struct{}
	lastLevel *Envelope
	lastSnap  *Envelope
	closed    bool
}

// NewFeed creates an empty feed.
func NewFeed(logger *log.Logger) *Feed {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Feed{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Handler returns the websocket endpoint watchers connect to.
func (f *Feed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			f.logger.Warn("ws upgrade failed", "error", err)
			return
		}

		c := &client{conn: conn}
		f.addClient(c)
		defer func() {
			f.removeClient(c)
			_ = conn.Close()
		}()

		f.logger.Info("watcher connected", "remote", conn.RemoteAddr().String())

		// The read loop only detects disconnects; watchers have nothing
		// to say.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (f *Feed) addClient(c *client) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = c.conn.Close()
		return
	}
	replay := make([]*Envelope, 0, 2)
	if f.lastLevel != nil {
		replay = append(replay, f.lastLevel)
	}
	if f.lastSnap != nil {
		replay = append(replay, f.lastSnap)
	}
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	for _, env := range replay {
		f.sendToClient(c, *env)
	}
}

func (f *Feed) removeClient(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, c)
}

// Watchers returns the number of connected watchers.
func (f *Feed) Watchers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// AnnounceLevel broadcasts a level switch and replays it to future watchers.
func (f *Feed) AnnounceLevel(id, name string) {
	env := Envelope{Type: TypeLevel, Payload: LevelInfo{ID: id, Name: name}}

	f.mu.Lock()
	f.lastLevel = &env
	f.lastSnap = nil // stale snapshot belongs to the previous level
	f.mu.Unlock()

	f.broadcast(env)
}

// PublishSnapshot broadcasts the current run state.
func (f *Feed) PublishSnapshot(snap game.Snapshot) {
	env := Envelope{Type: TypeSnapshot, Payload: snap}

	f.mu.Lock()
	f.lastSnap = &env
	f.mu.Unlock()

	f.broadcast(env)
}

// PublishLine broadcasts one transcript line.
func (f *Feed) PublishLine(line string) {
	f.broadcast(Envelope{Type: TypeLine, Payload: line})
}

// broadcast sends outside the lock so a slow watcher cannot stall the rest.
func (f *Feed) broadcast(env Envelope) {
	f.mu.Lock()
	clients := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()

	for _, c := range clients {
		f.sendToClient(c, env)
	}
}

func (f *Feed) sendToClient(c *client, env Envelope) {
	if err := c.writeJSON(env); err != nil {
		f.logger.Warn("watcher write failed", "error", err)
		_ = c.conn.Close()
		f.removeClient(c)
	}
}

// Close disconnects every watcher. The feed accepts no new state afterwards.
func (f *Feed) Close() {
	f.mu.Lock()
	clients := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.clients = make(map[*client]struct{})
	f.closed = true
	f.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session over"))
		_ = c.conn.Close()
	}
}
