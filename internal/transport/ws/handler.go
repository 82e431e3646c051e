package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"roomrelay/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Handler upgrades HTTP requests and pumps envelopes between the
// socket and the relay.
type Handler struct {
	hub      *Hub
	relay    *service.Relay
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the WebSocket handler. Origins are checked against
// the configured allowlist; "*" admits everything.
func NewHandler(hub *Hub, relay *service.Relay, allowedOrigins []string, log *slog.Logger) *Handler {
	return &Handler{
		hub:   hub,
		relay: relay,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Serve handles GET /ws
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "err", err)
		return
	}

	client := newClient(uuid.NewString())
	h.hub.Register(client)

	go h.writePump(wsConn, client)
	go h.readPump(wsConn, client)

	h.relay.Connect(client.id)
}

func (h *Handler) readPump(wsConn *websocket.Conn, client *Client) {
	defer func() {
		h.hub.Unregister(client)
		h.relay.Disconnect(client.id)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read", "conn", client.id, "err", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.log.Debug("bad envelope", "conn", client.id, "err", err)
			continue
		}
		h.dispatch(client, msg)
	}
}

// dispatch routes one inbound envelope. Unknown events are logged and
// dropped; malformed command payloads decode to zero values and fall
// through to the relay's defaults.
func (h *Handler) dispatch(client *Client, msg Message) {
	switch msg.Event {
	case evListRooms:
		h.ack(client, msg.AckID, h.relay.ListRooms())

	case evCreateRoom:
		var req service.CreateRoomRequest
		_ = json.Unmarshal(msg.Data, &req)
		h.ack(client, msg.AckID, h.relay.CreateRoom(client.id, req))

	case evJoinRoom:
		var req service.JoinRoomRequest
		_ = json.Unmarshal(msg.Data, &req)
		h.ack(client, msg.AckID, h.relay.JoinRoom(client.id, req))

	case evLeaveRoom:
		h.ack(client, msg.AckID, h.relay.LeaveRoom(client.id))

	case evPlayerState:
		h.relay.UpdateState(client.id, msg.Data)

	default:
		h.log.Debug("unknown event", "conn", client.id, "event", msg.Event)
	}
}

// ack sends the command response when the caller asked for one.
func (h *Handler) ack(client *Client, ackID int64, payload any) {
	if ackID == 0 {
		return
	}
	raw, err := encodeAck(ackID, payload)
	if err != nil {
		h.log.Error("encode ack", "err", err)
		return
	}
	client.enqueue(raw)
}

func (h *Handler) writePump(wsConn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
