package game

// moveContext is what every rule sees when judging a candidate placement.
type moveContext struct {
	g      *Game
	player PlayerID
	x, y   int
}

// Rule rejects a candidate placement with a specific error, or returns nil.
// Rules are independent of each other; adding one never changes another.
type Rule func(c moveContext) error

var rules = []Rule{
	ruleEmptyCell,
	ruleDiagonal,
	ruleRestriction,
	ruleFirstMoveAdjacency,
	ruleLineLength,
}

func ruleEmptyCell(c moveContext) error {
	b := c.g.board
	if !b.InBounds(c.x, c.y) {
		return ErrOutOfBounds
	}
	if !b.IsEmpty(c.x, c.y) {
		return ErrOccupied
	}
	return nil
}

func ruleDiagonal(c moveContext) error {
	if c.g.opts.DiagonalRule && c.g.board.HasOccupiedNeighbor(c.x, c.y, Diagonal) {
		return ErrDiagonalNeighbor
	}
	return nil
}

func ruleRestriction(c moveContext) error {
	r := c.g.restriction
	if r.active && r.target == c.player && c.g.board.HasOccupiedNeighbor(c.x, c.y, Orthogonal) {
		return ErrRestricted
	}
	return nil
}

// Player two's opening move may not touch player one's opening move by a side.
func ruleFirstMoveAdjacency(c moveContext) error {
	g := c.g
	if c.player != PlayerTwo || g.moved[PlayerTwo] || !g.moved[PlayerOne] || g.firstMove == nil {
		return nil
	}
	if g.firstMove.ManhattanTo(Move{X: c.x, Y: c.y}) == 1 {
		return ErrFirstMoveAdjacent
	}
	return nil
}

func ruleLineLength(c moveContext) error {
	limit := c.g.opts.LineLengthLimit
	b := c.g.board
	if limit <= 0 || limit >= b.Size() {
		return nil
	}
	if b.runThrough(c.x, c.y, 1, 0) > limit || b.runThrough(c.x, c.y, 0, 1) > limit {
		return ErrLineTooLong
	}
	return nil
}

// CheckMove reports why p may not claim (x,y), or nil when the move is legal.
// It does not look at whose turn it is.
func (g *Game) CheckMove(p PlayerID, x, y int) error {
	if g.over {
		return ErrGameOver
	}
	c := moveContext{g: g, player: p, x: x, y: y}
	for _, rule := range rules {
		if err := rule(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) IsLegal(p PlayerID, x, y int) bool {
	return g.CheckMove(p, x, y) == nil
}

// LegalMoves lists every legal placement for p in row-major order.
func (g *Game) LegalMoves(p PlayerID) []Move {
	if g.over {
		return nil
	}
	var moves []Move
	size := g.board.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if g.board.IsEmpty(x, y) && g.IsLegal(p, x, y) {
				moves = append(moves, Move{X: x, Y: y})
			}
		}
	}
	return moves
}

// HasLegalMove is LegalMoves(p) != empty.
func (g *Game) HasLegalMove(p PlayerID) bool {
	return len(g.LegalMoves(p)) > 0
}
