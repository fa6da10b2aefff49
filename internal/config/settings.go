package config

import (
	"strings"

	"diagonal-squares/internal/ai"
	"diagonal-squares/internal/game"
)

type Mode string

const (
	ModeHumanVsHuman       Mode = "hh"
	ModeHumanVsComputer    Mode = "hcpu"
	ModeComputerVsComputer Mode = "cpucpu"
)

// ParseMode accepts the short codes and the long spellings; anything else is
// human-vs-human.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hcpu", "human-vs-computer":
		return ModeHumanVsComputer
	case "cpucpu", "computer-vs-computer":
		return ModeComputerVsComputer
	default:
		return ModeHumanVsHuman
	}
}

const (
	MinBoardSize     = 5
	MaxBoardSize     = 40
	DefaultBoardSize = 40

	MinRestrictionIntervalSec = 5
	MaxRestrictionIntervalSec = 10
)

// GameSettings is what a player picks before a game starts.
type GameSettings struct {
	BoardSize              int  `json:"boardSize"`
	RestrictionIntervalSec int  `json:"restrictionIntervalSec"`
	LineLengthLimit        int  `json:"lineLengthLimit"`
	DiagonalRule           bool `json:"diagonalRule"`
	Mode                   Mode `json:"mode"`
	AILevelP1              int  `json:"aiLevelP1"`
	AILevelP2              int  `json:"aiLevelP2"`
	EndOnRestrictionLock   bool `json:"endOnRestrictionLock"`
	// Seed feeds the room's AI; 0 means seed from the clock.
	Seed int64 `json:"seed,omitempty"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:              DefaultBoardSize,
		RestrictionIntervalSec: MinRestrictionIntervalSec,
		DiagonalRule:           true,
		Mode:                   ModeHumanVsHuman,
		AILevelP1:              1,
		AILevelP2:              1,
	}
}

// Clamp pulls every value into its valid range. A line limit of 0 or less
// turns the cap off.
func (s GameSettings) Clamp() GameSettings {
	s.BoardSize = clamp(s.BoardSize, MinBoardSize, MaxBoardSize)
	s.RestrictionIntervalSec = clamp(s.RestrictionIntervalSec, MinRestrictionIntervalSec, MaxRestrictionIntervalSec)
	if s.LineLengthLimit <= 0 {
		s.LineLengthLimit = 0
	} else {
		s.LineLengthLimit = clamp(s.LineLengthLimit, 1, s.BoardSize)
	}
	s.Mode = ParseMode(string(s.Mode))
	s.AILevelP1 = int(ai.ParseLevel(s.AILevelP1))
	s.AILevelP2 = int(ai.ParseLevel(s.AILevelP2))
	return s
}

func (s GameSettings) GameOptions() game.Options {
	return game.Options{
		Size:                   s.BoardSize,
		RestrictionIntervalSec: s.RestrictionIntervalSec,
		LineLengthLimit:        s.LineLengthLimit,
		DiagonalRule:           s.DiagonalRule,
		EndOnRestrictionLock:   s.EndOnRestrictionLock,
	}
}

// Players names and flags both seats for the mode.
func (s GameSettings) Players() (game.Player, game.Player) {
	switch s.Mode {
	case ModeHumanVsComputer:
		return game.Player{ID: game.PlayerOne, Name: "Player 1"},
			game.Player{ID: game.PlayerTwo, Name: "Computer", IsComputer: true}
	case ModeComputerVsComputer:
		return game.Player{ID: game.PlayerOne, Name: "Computer 1", IsComputer: true},
			game.Player{ID: game.PlayerTwo, Name: "Computer 2", IsComputer: true}
	default:
		return game.Player{ID: game.PlayerOne, Name: "Player 1"},
			game.Player{ID: game.PlayerTwo, Name: "Player 2"}
	}
}

func (s GameSettings) AILevel(p game.PlayerID) ai.Level {
	if p == game.PlayerTwo {
		return ai.ParseLevel(s.AILevelP2)
	}
	return ai.ParseLevel(s.AILevelP1)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
