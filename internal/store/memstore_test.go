package store

import (
	"testing"

	"diagonal-squares/internal/room"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.SaveRoom(&room.Room{Code: "BBBBBB"})
	s.SaveRoom(&room.Room{Code: "AAAAAA"})

	if _, ok := s.GetRoom("AAAAAA"); !ok {
		t.Fatalf("expected saved room to be found")
	}
	if _, ok := s.GetRoom("ZZZZZZ"); ok {
		t.Fatalf("unexpected room")
	}
	list := s.ListRooms()
	if len(list) != 2 || list[0].Code != "AAAAAA" || list[1].Code != "BBBBBB" {
		t.Fatalf("expected rooms ordered by code, got %d rooms", len(list))
	}
	s.DeleteRoom("AAAAAA")
	if _, ok := s.GetRoom("AAAAAA"); ok {
		t.Fatalf("room should be gone after delete")
	}
}
