package model

// PlayerState is the last-known transform snapshot for one connection.
// It is relay payload, not authoritative simulation state: the server
// only sanitizes and forwards it.
type PlayerState struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsHost    bool       `json:"isHost"`
	Position  [3]float64 `json:"position"`
	Rotation  float64    `json:"rotation"`
	Action    string     `json:"action"`
	Velocity  [3]float64 `json:"velocity"`
	Timestamp int64      `json:"timestamp"`
}
