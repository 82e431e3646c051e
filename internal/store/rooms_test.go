package store

import (
	"regexp"
	"strings"
	"testing"

	"roomrelay/internal/model"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func newState(id string, isHost bool) *model.PlayerState {
	return &model.PlayerState{ID: id, IsHost: isHost, Action: "idle"}
}

func TestGenerateCodeFormat(t *testing.T) {
	s := NewRoomStore()
	for i := 0; i < 100; i++ {
		code := s.GenerateCode()
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q is not 6-char uppercase alphanumeric", code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeChars, c) {
				t.Fatalf("code %q contains %q outside the charset", code, c)
			}
		}
	}
}

func TestCreateRoomHostIsSolePlayer(t *testing.T) {
	s := NewRoomStore()
	code := s.CreateRoom("conn-1", "Alice")

	room, ok := s.Get(code)
	if !ok {
		t.Fatalf("room %q not in store after create", code)
	}
	if room.HostID != "conn-1" {
		t.Fatalf("hostId = %q, want conn-1", room.HostID)
	}
	if len(room.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(room.Players))
	}
	if p := room.Players[0]; !p.IsHost || p.Name != "Alice" {
		t.Fatalf("unexpected host record: %+v", p)
	}
}

func TestCreateRoomCodesAreUniqueWhileOpen(t *testing.T) {
	s := NewRoomStore()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := s.CreateRoom("host", "Host")
		if seen[code] {
			t.Fatalf("duplicate open room code %q", code)
		}
		seen[code] = true
	}
}

func TestRemovePlayerMigratesHostInJoinOrder(t *testing.T) {
	s := NewRoomStore()
	code := s.CreateRoom("a", "A")
	s.AddPlayer(code, "b", "B")
	s.AddPlayer(code, "c", "C")

	res, ok := s.RemovePlayer("a")
	if !ok {
		t.Fatal("expected removal of a")
	}
	if !res.HostChanged || res.Closed {
		t.Fatalf("unexpected result: %+v", res)
	}

	room, _ := s.Get(code)
	if room.HostID != "b" {
		t.Fatalf("host migrated to %q, want b (earliest joiner)", room.HostID)
	}
	if p := room.Player("b"); p == nil || !p.IsHost {
		t.Fatalf("promoted player flag not flipped: %+v", p)
	}
	if p := room.Player("c"); p == nil || p.IsHost {
		t.Fatalf("non-promoted player flagged host: %+v", p)
	}
}

func TestRemovePlayerFlipsHostFlagInCachedState(t *testing.T) {
	s := NewRoomStore()
	code := s.CreateRoom("a", "A")
	s.AddPlayer(code, "b", "B")
	s.SetState(code, newState("b", false))

	if _, ok := s.RemovePlayer("a"); !ok {
		t.Fatal("expected removal")
	}

	room, _ := s.Get(code)
	st, ok := room.States["b"]
	if !ok {
		t.Fatal("cached state for b missing")
	}
	if !st.IsHost {
		t.Fatal("cached state isHost not flipped on promotion")
	}
}

func TestRemoveLastPlayerClosesRoom(t *testing.T) {
	s := NewRoomStore()
	code := s.CreateRoom("a", "A")

	res, ok := s.RemovePlayer("a")
	if !ok || !res.Closed {
		t.Fatalf("expected closed room, got %+v ok=%v", res, ok)
	}
	if _, ok := s.Get(code); ok {
		t.Fatalf("room %q still open after last player left", code)
	}
	if s.Len() != 0 {
		t.Fatalf("store not empty: %d rooms", s.Len())
	}
}

func TestRemoveUnknownConnection(t *testing.T) {
	s := NewRoomStore()
	s.CreateRoom("a", "A")

	if res, ok := s.RemovePlayer("nobody"); ok || res != nil {
		t.Fatalf("expected no-op, got %+v", res)
	}
}

func TestRemoveNonHostKeepsHost(t *testing.T) {
	s := NewRoomStore()
	code := s.CreateRoom("a", "A")
	s.AddPlayer(code, "b", "B")
	s.SetState(code, newState("b", false))

	res, ok := s.RemovePlayer("b")
	if !ok || res.HostChanged || res.Closed {
		t.Fatalf("unexpected result: %+v", res)
	}
	room, _ := s.Get(code)
	if room.HostID != "a" || len(room.Players) != 1 {
		t.Fatalf("room mutated unexpectedly: host=%q players=%d", room.HostID, len(room.Players))
	}
	if _, ok := room.States["b"]; ok {
		t.Fatal("departed player's state not dropped")
	}
}

func TestSummaries(t *testing.T) {
	s := NewRoomStore()
	code := s.CreateRoom("a", "Alice")
	s.AddPlayer(code, "b", "Bob")

	list := s.Summaries()
	if len(list) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(list))
	}
	sum := list[0]
	if sum.RoomCode != code || sum.HostName != "Alice" || sum.PlayerCount != 2 || sum.MaxPlayers != 10 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}
