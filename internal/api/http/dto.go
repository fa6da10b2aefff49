package http

import (
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/game"
)

// SettingsRequest overrides the server defaults field by field; anything
// left out keeps the default.
type SettingsRequest struct {
	BoardSize              *int    `json:"boardSize"`
	RestrictionIntervalSec *int    `json:"restrictionIntervalSec"`
	LineLengthLimit        *int    `json:"lineLengthLimit"`
	DiagonalRule           *bool   `json:"diagonalRule"`
	Mode                   *string `json:"mode"`
	AILevelP1              *int    `json:"aiLevelP1"`
	AILevelP2              *int    `json:"aiLevelP2"`
	EndOnRestrictionLock   *bool   `json:"endOnRestrictionLock"`
	Seed                   *int64  `json:"seed"`
}

func (r SettingsRequest) apply(s config.GameSettings) config.GameSettings {
	if r.BoardSize != nil {
		s.BoardSize = *r.BoardSize
	}
	if r.RestrictionIntervalSec != nil {
		s.RestrictionIntervalSec = *r.RestrictionIntervalSec
	}
	if r.LineLengthLimit != nil {
		s.LineLengthLimit = *r.LineLengthLimit
	}
	if r.DiagonalRule != nil {
		s.DiagonalRule = *r.DiagonalRule
	}
	if r.Mode != nil {
		s.Mode = config.ParseMode(*r.Mode)
	}
	if r.AILevelP1 != nil {
		s.AILevelP1 = *r.AILevelP1
	}
	if r.AILevelP2 != nil {
		s.AILevelP2 = *r.AILevelP2
	}
	if r.EndOnRestrictionLock != nil {
		s.EndOnRestrictionLock = *r.EndOnRestrictionLock
	}
	if r.Seed != nil {
		s.Seed = *r.Seed
	}
	return s.Clamp()
}

// CreateRoomRequest is the payload for /create-room.
type CreateRoomRequest struct {
	SettingsRequest
}

// NewGameRequest is the payload for /new-game.
type NewGameRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
	SettingsRequest
}

// RoomRequest is the payload for /finish.
type RoomRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
}

// MoveRequest is a human placement.
type MoveRequest struct {
	RoomCode string        `json:"roomCode" binding:"required"`
	Player   game.PlayerID `json:"player" binding:"required,oneof=1 2"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
}

// PlayerRequest is the payload for /pass and /move-bot.
type PlayerRequest struct {
	RoomCode string        `json:"roomCode" binding:"required"`
	Player   game.PlayerID `json:"player" binding:"required,oneof=1 2"`
}

type roomQuery struct {
	RoomCode string `form:"roomCode" binding:"required"`
}

type playerQuery struct {
	RoomCode string `form:"roomCode" binding:"required"`
	Player   int    `form:"player" binding:"required,oneof=1 2"`
	Level    int    `form:"level"`
}
