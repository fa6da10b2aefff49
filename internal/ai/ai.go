// Package ai picks moves for computer players. It only reads the game it is
// given; lookahead runs on simulated copies.
package ai

import (
	"math/rand"

	"diagonal-squares/internal/game"
)

type Level int

const (
	LevelRandom    Level = 1
	LevelGreedy    Level = 2
	LevelLookahead Level = 3
)

// ParseLevel clamps any integer to a valid level.
func ParseLevel(n int) Level {
	switch {
	case n <= int(LevelRandom):
		return LevelRandom
	case n >= int(LevelLookahead):
		return LevelLookahead
	default:
		return Level(n)
	}
}

func (l Level) String() string {
	switch l {
	case LevelRandom:
		return "random"
	case LevelGreedy:
		return "greedy"
	case LevelLookahead:
		return "lookahead"
	default:
		return "unknown"
	}
}

// Weight of one immediate point against one opponent reply in lookahead.
const pointWeight = 10

// Bot draws every random choice from its own source, so a fixed seed gives a
// fixed sequence of choices.
type Bot struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Bot {
	return &Bot{rng: rng}
}

// NewSeeded is New(rand.New(rand.NewSource(seed))).
func NewSeeded(seed int64) *Bot {
	return New(rand.New(rand.NewSource(seed)))
}

// ChooseMove returns a legal move for me, or false when there is none and the
// caller has to pass.
func (b *Bot) ChooseMove(g *game.Game, me game.PlayerID, lvl Level) (game.Move, bool) {
	legal := g.LegalMoves(me)
	if len(legal) == 0 {
		return game.Move{}, false
	}
	switch ParseLevel(int(lvl)) {
	case LevelRandom:
		return b.pick(legal), true
	case LevelGreedy:
		return b.pick(greedyCandidates(g, legal)), true
	default:
		return b.pick(lookaheadCandidates(g, me, legal)), true
	}
}

func (b *Bot) pick(moves []game.Move) game.Move {
	return moves[b.rng.Intn(len(moves))]
}

// greedyCandidates keeps the moves that score the most points right now.
func greedyCandidates(g *game.Game, legal []game.Move) []game.Move {
	var best []game.Move
	bestPts := -1
	for _, m := range legal {
		pts := g.Points(m.X, m.Y)
		switch {
		case pts > bestPts:
			bestPts = pts
			best = append(best[:0], m)
		case pts == bestPts:
			best = append(best, m)
		}
	}
	return best
}

// lookaheadCandidates keeps the moves maximizing
//
//	points*10 - opponentReplies - 0.01*distanceFromCenter
//
// evaluated as an integer scaled by 200 so ties stay exact.
func lookaheadCandidates(g *game.Game, me game.PlayerID, legal []game.Move) []game.Move {
	var best []game.Move
	bestScore := 0
	for i, m := range legal {
		score := lookaheadScore(g, me, m)
		if i == 0 || score > bestScore {
			bestScore = score
			best = append(best[:0], m)
		} else if score == bestScore {
			best = append(best, m)
		}
	}
	return best
}

func lookaheadScore(g *game.Game, me game.PlayerID, m game.Move) int {
	pts := g.Points(m.X, m.Y)
	sim, err := g.Simulate(me, m)
	if err != nil {
		// m came from LegalMoves, so this does not happen.
		return pts * pointWeight * 200
	}
	replies := len(sim.LegalMoves(me.Other()))
	return (pts*pointWeight-replies)*200 - centerDistance2(g.Options().Size, m)
}

// centerDistance2 is twice the Manhattan distance from the board center,
// whose coordinates are (size-1)/2 and may be half-integers.
func centerDistance2(size int, m game.Move) int {
	return abs(2*m.X-(size-1)) + abs(2*m.Y-(size-1))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
