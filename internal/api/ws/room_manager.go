package ws

import (
	"diagonal-squares/internal/game"
	"diagonal-squares/internal/room"
)

type RoomManager interface {
	Get(roomCode string) (*room.Room, bool)
	View(r *room.Room) room.RoomView
	ApplyMove(r *room.Room, player game.PlayerID, x, y int) (game.MoveResult, error)
	Pass(r *room.Room, player game.PlayerID) error
	BotMove(r *room.Room, player game.PlayerID) (game.MoveResult, error)
}
