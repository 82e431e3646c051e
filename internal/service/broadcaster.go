package service

// Broadcaster abstracts the WebSocket hub's fan-out so the relay never
// imports the transport package (avoids import cycle). Group membership
// mirrors the transport's notion of which connections receive
// room-scoped events.
type Broadcaster interface {
	ToConn(connID, event string, payload any)
	ToRoom(roomCode, event string, payload any)
	ToRoomExcept(roomCode, exceptID, event string, payload any)
	ToAll(event string, payload any)

	JoinGroup(roomCode, connID string)
	LeaveGroup(roomCode, connID string)
}
