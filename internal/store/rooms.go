package store

import (
	"crypto/rand"

	"roomrelay/internal/model"
)

const (
	codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLen   = 6
)

// RoomStore is the authoritative in-memory mapping of room code to
// room. Presence in the map is the sole open/closed signal: a room
// exists iff it has at least one player. The store is not synchronized;
// the relay serializes all access to it.
type RoomStore struct {
	rooms map[string]*model.Room
}

// RemoveResult describes the outcome of removing a player.
type RemoveResult struct {
	RoomCode    string
	PlayerName  string
	HostChanged bool
	Closed      bool
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*model.Room)}
}

// GenerateCode produces a 6-char code from an unambiguous uppercase
// alphanumeric charset, retrying against currently open codes. After
// the retry budget the last candidate is used regardless; with a 32^6
// space that branch is unreachable in practice.
func (s *RoomStore) GenerateCode() string {
	var code string
	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			// crypto/rand never fails on supported platforms
			continue
		}
		out := make([]byte, codeLen)
		for i := range out {
			out[i] = codeChars[int(b[i])%len(codeChars)]
		}
		code = string(out)
		if _, exists := s.rooms[code]; !exists {
			return code
		}
	}
	return code
}

// CreateRoom opens a new room with the caller as sole player and host.
func (s *RoomStore) CreateRoom(hostID, hostName string) string {
	code := s.GenerateCode()
	s.rooms[code] = &model.Room{
		Code:    code,
		HostID:  hostID,
		Players: []*model.Player{{ID: hostID, Name: hostName, IsHost: true}},
		States:  make(map[string]*model.PlayerState),
	}
	return code
}

// Get returns the open room for a code.
func (s *RoomStore) Get(code string) (*model.Room, bool) {
	room, ok := s.rooms[code]
	return room, ok
}

// AddPlayer appends a non-host member to an open room.
func (s *RoomStore) AddPlayer(code, id, name string) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}
	if p := room.Player(id); p != nil {
		p.Name = name
		return true
	}
	room.Players = append(room.Players, &model.Player{ID: id, Name: name, IsHost: false})
	return true
}

// SetState overwrites the cached snapshot for a member.
func (s *RoomStore) SetState(code string, state *model.PlayerState) {
	if room, ok := s.rooms[code]; ok {
		room.States[state.ID] = state
	}
}

// RemovePlayer locates the room containing connID (at most one, by
// invariant), removes the player and either migrates the host to the
// earliest remaining joiner or closes the room. Returns false if the
// connection was not a member of any room.
func (s *RoomStore) RemovePlayer(connID string) (*RemoveResult, bool) {
	for code, room := range s.rooms {
		player := room.Player(connID)
		if player == nil {
			continue
		}

		for i, p := range room.Players {
			if p.ID == connID {
				room.Players = append(room.Players[:i], room.Players[i+1:]...)
				break
			}
		}
		delete(room.States, connID)

		res := &RemoveResult{RoomCode: code, PlayerName: player.Name}

		if room.HostID == connID {
			if len(room.Players) > 0 {
				next := room.Players[0]
				next.IsHost = true
				room.HostID = next.ID
				if st, ok := room.States[next.ID]; ok {
					st.IsHost = true
				}
				res.HostChanged = true
			} else {
				delete(s.rooms, code)
				res.Closed = true
			}
		}

		return res, true
	}
	return nil, false
}

// Summaries snapshots every open room for the global room list.
func (s *RoomStore) Summaries() []model.RoomSummary {
	list := make([]model.RoomSummary, 0, len(s.rooms))
	for code, room := range s.rooms {
		hostName := "Unknown"
		if host := room.Player(room.HostID); host != nil {
			hostName = host.Name
		}
		list = append(list, model.RoomSummary{
			RoomCode:    code,
			HostName:    hostName,
			PlayerCount: len(room.Players),
			MaxPlayers:  model.MaxPlayers,
		})
	}
	return list
}

// Len reports the number of open rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}
