package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/arc-monitor/arcmon/internal/session"
	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// SnapshotProvider supplies the full-state snapshot sent to new clients
// and on the periodic resync tick.
type SnapshotProvider func() session.Snapshot

// Broadcaster fans monitor updates out to WebSocket clients. State and
// live updates are throttled with a last-wins pending slot; log entries
// go out immediately since they are rare and order matters.
type Broadcaster struct {
	mu             sync.RWMutex
	clients        map[*client]bool
	snapshot       SnapshotProvider
	throttle       time.Duration
	snapshotTicker *time.Ticker

	flushMu      sync.Mutex
	pendingState *StatePayload
	pendingLive  *LivePayload
	flushTimer   *time.Timer
}

func NewBroadcaster(snapshot SnapshotProvider, throttle, snapshotInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		snapshot: snapshot,
		throttle: throttle,
	}

	b.snapshotTicker = time.NewTicker(snapshotInterval)
	go b.snapshotLoop()

	return b
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	b.sendSnapshot(c)
	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

func (b *Broadcaster) sendSnapshot(c *client) {
	msg := WSMessage{
		Type:    MsgSnapshot,
		Payload: SnapshotPayload{Snapshot: b.snapshot()},
	}
	data, _ := json.Marshal(msg)

	select {
	case c.send <- data:
	default:
		// Client too slow, drop the snapshot
	}
}

// QueueState stages a state update for the next flush. A later update
// replaces the payload but the change flags are merged, so a reset that
// lands mid-window is never lost.
func (b *Broadcaster) QueueState(st session.State, ch session.Change, sample *session.Sample) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	p := &StatePayload{State: st, Change: ch, Sample: sample}
	if prev := b.pendingState; prev != nil {
		p.Change.SystemReset = p.Change.SystemReset || prev.Change.SystemReset
		p.Change.SessionReset = p.Change.SessionReset || prev.Change.SessionReset
		p.Change.StageChanged = p.Change.StageChanged || prev.Change.StageChanged
		p.Change.ActiveChanged = p.Change.ActiveChanged || prev.Change.ActiveChanged
		p.Change.TotalChanged = p.Change.TotalChanged || prev.Change.TotalChanged
		if p.Sample == nil {
			p.Sample = prev.Sample
		}
	}
	b.pendingState = p

	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

func (b *Broadcaster) QueueLive(line string, rateHz float64) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.pendingLive = &LivePayload{Line: line, RateHz: rateHz}

	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

func (b *Broadcaster) QueueLog(entry session.LogEntry) {
	b.broadcast(WSMessage{
		Type:    MsgLog,
		Payload: LogPayload{Entry: entry},
	})
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	state := b.pendingState
	live := b.pendingLive
	b.pendingState = nil
	b.pendingLive = nil
	b.flushTimer = nil
	b.flushMu.Unlock()

	if state != nil {
		b.broadcast(WSMessage{Type: MsgState, Payload: *state})
	}
	if live != nil {
		b.broadcast(WSMessage{Type: MsgLive, Payload: *live})
	}
}

func (b *Broadcaster) snapshotLoop() {
	for range b.snapshotTicker.C {
		b.broadcast(WSMessage{
			Type:    MsgSnapshot,
			Payload: SnapshotPayload{Snapshot: b.snapshot()},
		})
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Client can't keep up, disconnect it
			log.Printf("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Stop halts the periodic snapshot ticker. Pending flush timers fire
// into an empty client set at worst.
func (b *Broadcaster) Stop() {
	b.snapshotTicker.Stop()
}
