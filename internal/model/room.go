package model

// MaxPlayers is reported in room summaries. It is advisory only; the
// relay does not reject joins past the cap.
const MaxPlayers = 10

// Player is one member of a room, keyed by connection id.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// Room is an open session. Players keeps join order: host migration
// promotes the earliest remaining joiner, so ordering is load-bearing.
type Room struct {
	Code    string
	HostID  string
	Players []*Player
	States  map[string]*PlayerState
}

// Player returns the member with the given connection id, or nil.
func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RoomSummary is one entry of the global room list.
type RoomSummary struct {
	RoomCode    string `json:"roomCode"`
	HostName    string `json:"hostName"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
}

// RoomUpdate is the room:update payload sent to room members after any
// membership or host change.
type RoomUpdate struct {
	RoomCode string    `json:"roomCode"`
	HostID   string    `json:"hostId"`
	Players  []*Player `json:"players"`
}
