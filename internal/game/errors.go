package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrPassNotAllowed = errors.New("pass not allowed: legal moves remain")
	ErrGameOver       = errors.New("game already finished")
)

// Rule violations. All of them match ErrInvalidMove with errors.Is.
var (
	ErrOutOfBounds       = fmt.Errorf("%w: out of bounds", ErrInvalidMove)
	ErrOccupied          = fmt.Errorf("%w: cell occupied", ErrInvalidMove)
	ErrDiagonalNeighbor  = fmt.Errorf("%w: diagonal neighbor occupied", ErrInvalidMove)
	ErrRestricted        = fmt.Errorf("%w: restriction forbids orthogonal contact", ErrInvalidMove)
	ErrFirstMoveAdjacent = fmt.Errorf("%w: first move adjacent to opponent's first move", ErrInvalidMove)
	ErrLineTooLong       = fmt.Errorf("%w: line length limit exceeded", ErrInvalidMove)
)

var ErrOutOfTurn = errors.New("event out of turn")
