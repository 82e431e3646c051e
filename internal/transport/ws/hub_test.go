package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func drain(c *Client) []Message {
	var out []Message
	for {
		select {
		case raw := <-c.send:
			var m Message
			if err := json.Unmarshal(raw, &m); err == nil {
				out = append(out, m)
			}
		default:
			return out
		}
	}
}

func TestToRoomExceptSkipsSender(t *testing.T) {
	h := testHub()
	a, b, c := newClient("a"), newClient("b"), newClient("c")
	for _, cl := range []*Client{a, b, c} {
		h.Register(cl)
	}
	h.JoinGroup("ROOM01", "a")
	h.JoinGroup("ROOM01", "b")

	h.ToRoomExcept("ROOM01", "a", "player:state", map[string]string{"id": "a"})

	if got := drain(a); len(got) != 0 {
		t.Fatalf("sender received echo: %+v", got)
	}
	if got := drain(b); len(got) != 1 || got[0].Event != "player:state" {
		t.Fatalf("room member missed broadcast: %+v", got)
	}
	if got := drain(c); len(got) != 0 {
		t.Fatalf("non-member received room broadcast: %+v", got)
	}
}

func TestToAllReachesEveryConnection(t *testing.T) {
	h := testHub()
	a, b := newClient("a"), newClient("b")
	h.Register(a)
	h.Register(b)
	h.JoinGroup("ROOM01", "a")

	h.ToAll("rooms:list", []string{})

	for _, cl := range []*Client{a, b} {
		if got := drain(cl); len(got) != 1 || got[0].Event != "rooms:list" {
			t.Fatalf("client %s: %+v", cl.id, got)
		}
	}
}

func TestUnregisterLeavesGroupsAndClosesSend(t *testing.T) {
	h := testHub()
	a := newClient("a")
	h.Register(a)
	h.JoinGroup("ROOM01", "a")

	h.Unregister(a)

	if _, ok := <-a.send; ok {
		t.Fatal("send channel not closed")
	}
	h.ToRoom("ROOM01", "room:update", nil)
	h.ToAll("rooms:list", nil)
	// No panic on fan-out after removal is the assertion here.
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	h := testHub()
	a := newClient("a")
	h.Register(a)

	for i := 0; i < sendBuffer+10; i++ {
		h.ToConn("a", "rooms:list", i)
	}

	if got := drain(a); len(got) != sendBuffer {
		t.Fatalf("expected %d buffered frames, got %d", sendBuffer, len(got))
	}
}

func TestAckEnvelope(t *testing.T) {
	raw, err := encodeAck(7, map[string]bool{"success": true})
	if err != nil {
		t.Fatal(err)
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m.Event != ackEvent || m.AckID != 7 {
		t.Fatalf("unexpected ack envelope: %+v", m)
	}
	var payload map[string]bool
	if err := json.Unmarshal(m.Data, &payload); err != nil || !payload["success"] {
		t.Fatalf("unexpected ack payload: %s", m.Data)
	}
}

func TestEnvelopeToleratesJunk(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"event":"mystery","data":{"x":1},"extra":true}`), &m); err != nil {
		t.Fatalf("envelope must tolerate unknown fields: %v", err)
	}
	if m.Event != "mystery" || m.AckID != 0 {
		t.Fatalf("unexpected decode: %+v", m)
	}
}
