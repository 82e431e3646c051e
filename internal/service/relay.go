package service

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"roomrelay/internal/metrics"
	"roomrelay/internal/model"
	"roomrelay/internal/store"
)

// Outbound event names.
const (
	EventRoomsList   = "rooms:list"
	EventRoomUpdate  = "room:update"
	EventRoomState   = "room:state"
	EventPlayerState = "player:state"
)

// Error strings surfaced in ack payloads. Private to the requester,
// never broadcast.
const (
	ErrRoomCodeRequired = "Room code is required"
	ErrRoomNotFound     = "Room not found"
	ErrNotInRoom        = "Not currently in a room"
)

const (
	defaultHostName   = "Host"
	defaultGuestName  = "Guest"
	defaultPlayerName = "Player"
)

type session struct {
	roomCode   string
	playerName string
}

// Relay is the room/session state machine. Every command runs under one
// mutex spanning mutation plus broadcast enqueue, which keeps the
// transport's goroutine-per-connection model equivalent to the
// single-threaded handler the protocol assumes: two commands never
// interleave mid-handler, and room:update always precedes the
// rooms:list that follows it.
type Relay struct {
	mu       sync.Mutex
	rooms    *store.RoomStore
	sessions map[string]*session
	bc       Broadcaster
	log      *slog.Logger
}

func NewRelay(rooms *store.RoomStore, bc Broadcaster, log *slog.Logger) *Relay {
	return &Relay{
		rooms:    rooms,
		sessions: make(map[string]*session),
		bc:       bc,
		log:      log,
	}
}

// CreateRoomRequest is the createRoom command payload.
type CreateRoomRequest struct {
	PlayerName string `json:"playerName"`
}

// CreateRoomResult acks createRoom. The command has no failure path.
type CreateRoomResult struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
}

// JoinRoomRequest is the joinRoom command payload.
type JoinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// JoinRoomResult acks joinRoom.
type JoinRoomResult struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode,omitempty"`
	Error    string `json:"error,omitempty"`
}

// LeaveRoomResult acks leaveRoom.
type LeaveRoomResult struct {
	Success     bool   `json:"success"`
	RoomCode    string `json:"roomCode,omitempty"`
	PlayerName  string `json:"playerName,omitempty"`
	HostChanged bool   `json:"hostChanged,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ListRoomsResult acks listRooms.
type ListRoomsResult struct {
	Success bool                `json:"success"`
	Rooms   []model.RoomSummary `json:"rooms"`
}

// Connect registers a new connection and pushes it the current room
// list. Clients must tolerate a rooms:list with no preceding
// room:update; this is where that case comes from.
func (r *Relay) Connect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("client connected", "conn", connID)
	r.bc.ToConn(connID, EventRoomsList, r.rooms.Summaries())
}

// ListRooms snapshots the open rooms.
func (r *Relay) ListRooms() ListRoomsResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	return ListRoomsResult{Success: true, Rooms: r.rooms.Summaries()}
}

// CreateRoom opens a fresh room with the caller as host.
func (r *Relay) CreateRoom(connID string, req CreateRoomRequest) CreateRoomResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		name = defaultHostName
	}

	code := r.rooms.CreateRoom(connID, name)
	r.bc.JoinGroup(code, connID)
	r.sessions[connID] = &session{roomCode: code, playerName: name}

	r.log.Info("room created", "room", code, "host", name)
	metrics.OpenRooms.Set(float64(r.rooms.Len()))

	r.emitRoomUpdate(code)
	return CreateRoomResult{Success: true, RoomCode: code}
}

// JoinRoom adds the caller to an open room as a non-host member.
func (r *Relay) JoinRoom(connID string, req JoinRoomRequest) JoinRoomResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		name = defaultGuestName
	}

	if code == "" {
		return JoinRoomResult{Success: false, Error: ErrRoomCodeRequired}
	}
	room, ok := r.rooms.Get(code)
	if !ok {
		return JoinRoomResult{Success: false, Error: ErrRoomNotFound}
	}

	r.rooms.AddPlayer(code, connID, name)
	r.bc.JoinGroup(code, connID)
	r.sessions[connID] = &session{roomCode: code, playerName: name}

	r.log.Info("player joined", "room", code, "player", name)

	r.emitRoomUpdate(code)

	if len(room.States) > 0 {
		snapshot := make([]*model.PlayerState, 0, len(room.States))
		for _, st := range room.States {
			snapshot = append(snapshot, st)
		}
		r.bc.ToConn(connID, EventRoomState, snapshot)
	}

	return JoinRoomResult{Success: true, RoomCode: code}
}

// LeaveRoom voluntarily removes the caller from its room.
func (r *Relay) LeaveRoom(connID string) LeaveRoomResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok || sess.roomCode == "" {
		return LeaveRoomResult{Success: false, Error: ErrNotInRoom}
	}

	code := sess.roomCode
	r.bc.LeaveGroup(code, connID)
	res := r.removeFromRooms(connID)
	delete(r.sessions, connID)

	out := LeaveRoomResult{Success: true, RoomCode: code}
	if res != nil {
		out.RoomCode = res.RoomCode
		out.PlayerName = res.PlayerName
		out.HostChanged = res.HostChanged
	}
	return out
}

// UpdateState sanitizes and relays one transform snapshot.
// Fire-and-forget: no ack, and a connection outside any open room is
// ignored silently.
func (r *Relay) UpdateState(connID string, raw json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok || sess.roomCode == "" {
		return
	}
	room, ok := r.rooms.Get(sess.roomCode)
	if !ok {
		return
	}

	var in StateInput
	// Malformed payloads fall through to all-default fields.
	_ = json.Unmarshal(raw, &in)

	state := &model.PlayerState{
		ID:        connID,
		Name:      defaultPlayerName,
		Position:  sanitizeVec3(in.Position),
		Rotation:  sanitizeRotation(in.Rotation),
		Action:    sanitizeAction(in.Action),
		Velocity:  sanitizeVec3(in.Velocity),
		Timestamp: time.Now().UnixMilli(),
	}
	if p := room.Player(connID); p != nil {
		state.Name = p.Name
		state.IsHost = p.IsHost
	} else if n, ok := in.Name.(string); ok && n != "" {
		state.Name = n
	}

	r.rooms.SetState(sess.roomCode, state)
	metrics.RelayedStates.Inc()

	r.bc.ToRoomExcept(sess.roomCode, connID, EventPlayerState, state)
}

// Disconnect is the transport-level counterpart of LeaveRoom. It always
// runs the removal path, whether or not the connection was in a room.
func (r *Relay) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.sessions[connID]
	r.removeFromRooms(connID)
	delete(r.sessions, connID)

	if sess != nil && sess.roomCode != "" {
		r.log.Info("client disconnected", "conn", connID, "room", sess.roomCode, "player", sess.playerName)
	} else {
		r.log.Info("client disconnected", "conn", connID)
	}
}

// removeFromRooms runs the shared removal path and its broadcasts.
// Caller holds r.mu.
func (r *Relay) removeFromRooms(connID string) *store.RemoveResult {
	res, ok := r.rooms.RemovePlayer(connID)
	if !ok {
		return nil
	}

	metrics.OpenRooms.Set(float64(r.rooms.Len()))

	if res.Closed {
		// The room is gone: a room:update for it would be meaningless,
		// so only the global list goes out.
		r.log.Info("room closed", "room", res.RoomCode)
		r.bc.ToAll(EventRoomsList, r.rooms.Summaries())
		return res
	}

	r.emitRoomUpdate(res.RoomCode)
	return res
}

// emitRoomUpdate broadcasts the membership snapshot to the room, then
// the summary list to everyone. The order is part of the protocol
// contract. Caller holds r.mu.
func (r *Relay) emitRoomUpdate(code string) {
	room, ok := r.rooms.Get(code)
	if !ok {
		return
	}
	r.bc.ToRoom(code, EventRoomUpdate, model.RoomUpdate{
		RoomCode: code,
		HostID:   room.HostID,
		Players:  room.Players,
	})
	r.bc.ToAll(EventRoomsList, r.rooms.Summaries())
}
