package room

import (
	"sync"
	"time"

	"diagonal-squares/internal/ai"
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/game"
)

// Room hosts one game at a time. Starting a new game replaces the game
// wholesale; nothing pending from the old one survives.
type Room struct {
	ID   string
	Code string

	mu sync.Mutex
	// flushMu orders event delivery once mu is released.
	flushMu    sync.Mutex
	outbox     []outgoing
	settings   config.GameSettings
	game       *game.Game
	bot        *ai.Bot
	generation int
	createdAt  time.Time
	startedAt  time.Time
	// aiDueAt is when the computer on turn may move; zero when none is pending.
	aiDueAt time.Time
	endedAt time.Time
}

type outgoing struct {
	action string
	data   interface{}
}

type RoomView struct {
	ID         string              `json:"id"`
	Code       string              `json:"code"`
	Settings   config.GameSettings `json:"settings"`
	Generation int                 `json:"generation"`
	State      game.Snapshot       `json:"state"`
	CreatedAt  time.Time           `json:"createdAt"`
	StartedAt  time.Time           `json:"startedAt"`
	ElapsedMs  int64               `json:"elapsedMs"`
}

// view must be called with r.mu held.
func (r *Room) view(now time.Time) RoomView {
	return RoomView{
		ID:         r.ID,
		Code:       r.Code,
		Settings:   r.settings,
		Generation: r.generation,
		State:      r.game.Snapshot(now.UnixMilli()),
		CreatedAt:  r.createdAt,
		StartedAt:  r.startedAt,
		ElapsedMs:  now.Sub(r.startedAt).Milliseconds(),
	}
}

type Store interface {
	GetRoom(code string) (*Room, bool)
	SaveRoom(r *Room)
	ListRooms() []*Room
	DeleteRoom(code string)
}
