package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"roomrelay/internal/metrics"
)

// GlobalMirror republishes global broadcasts to other relay nodes.
// Optional; nil means single-node operation.
type GlobalMirror interface {
	Publish(ctx context.Context, event string, data []byte) error
}

// Hub tracks connected clients and their room groups and performs all
// fan-out. Enqueue happens synchronously under the lock, so events
// reach each client's send buffer in the order the relay emitted them;
// actual delivery is the writePump's problem.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Client
	groups map[string]map[string]*Client

	mirror GlobalMirror
	log    *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*Client),
		groups: make(map[string]map[string]*Client),
		log:    log,
	}
}

// SetMirror attaches the cross-node bridge. Call before serving.
func (h *Hub) SetMirror(m GlobalMirror) { h.mirror = m }

// Register adds a connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	metrics.ActiveConnections.Inc()
}

// Unregister removes a connection from the hub and every group and
// closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing, ok := h.conns[c.id]
	if !ok || existing != c {
		return
	}
	delete(h.conns, c.id)
	for code, members := range h.groups {
		if _, ok := members[c.id]; ok {
			delete(members, c.id)
			if len(members) == 0 {
				delete(h.groups, code)
			}
		}
	}
	close(c.send)
	metrics.ActiveConnections.Dec()
}

// JoinGroup subscribes a connection to a room's broadcasts.
func (h *Hub) JoinGroup(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	if h.groups[roomCode] == nil {
		h.groups[roomCode] = make(map[string]*Client)
	}
	h.groups[roomCode][connID] = c
}

// LeaveGroup unsubscribes a connection from a room's broadcasts.
func (h *Hub) LeaveGroup(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.groups[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.groups, roomCode)
		}
	}
}

// ToConn unicasts an event to one connection.
func (h *Hub) ToConn(connID, event string, payload any) {
	raw, err := encodeEvent(event, payload)
	if err != nil {
		h.log.Error("encode event", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.conns[connID]; ok {
		c.enqueue(raw)
	}
}

// ToRoom broadcasts an event to every member of a room group.
func (h *Hub) ToRoom(roomCode, event string, payload any) {
	h.toRoom(roomCode, "", event, payload)
}

// ToRoomExcept broadcasts to a room group minus one connection. Used
// for player:state so the sender never sees its own echo.
func (h *Hub) ToRoomExcept(roomCode, exceptID, event string, payload any) {
	h.toRoom(roomCode, exceptID, event, payload)
}

func (h *Hub) toRoom(roomCode, exceptID, event string, payload any) {
	raw, err := encodeEvent(event, payload)
	if err != nil {
		h.log.Error("encode event", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.groups[roomCode] {
		if id == exceptID {
			continue
		}
		c.enqueue(raw)
	}
}

// ToAll broadcasts an event to every connection on this node, and
// mirrors it to other nodes when a bridge is attached.
func (h *Hub) ToAll(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("encode event", "event", event, "err", err)
		return
	}
	raw, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return
	}
	h.deliverAll(raw)

	if h.mirror != nil {
		if err := h.mirror.Publish(context.Background(), event, data); err != nil {
			h.log.Warn("mirror publish", "event", event, "err", err)
		}
	}
}

// DeliverForeign fans out an event received from another node to local
// connections only (no re-mirroring).
func (h *Hub) DeliverForeign(event string, data []byte) {
	raw, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return
	}
	h.deliverAll(raw)
}

func (h *Hub) deliverAll(raw []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		c.enqueue(raw)
	}
}
