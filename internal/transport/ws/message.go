package ws

import "encoding/json"

// Inbound event names.
const (
	evListRooms   = "listRooms"
	evCreateRoom  = "createRoom"
	evJoinRoom    = "joinRoom"
	evLeaveRoom   = "leaveRoom"
	evPlayerState = "player:state"
)

// Message is the wire envelope in both directions. Commands that want a
// response carry a non-zero ackId; the server answers with exactly one
// envelope of event "ack" echoing that id. player:state carries no
// ackId and gets no ack.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID int64           `json:"ackId,omitempty"`
}

const ackEvent = "ack"

// encodeEvent marshals a server-to-client event envelope.
func encodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: data})
}

// encodeAck marshals the response envelope for a command.
func encodeAck(ackID int64, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: ackEvent, AckID: ackID, Data: data})
}
