package game

// Game is one match between two players on one board. It has no clock and no
// goroutines; callers serialize access.
type Game struct {
	opts    Options
	board   *Board
	players [2]Player
	current PlayerID
	scores  [3]int
	passes  int

	// moved is indexed by PlayerID; firstMove is player one's opening move.
	moved     [3]bool
	firstMove *Move

	restriction restriction

	over    bool
	reason  EndReason
	history []Event
}

// New starts a game with player one on turn. Player IDs are forced to 1 and 2.
func New(opts Options, p1, p2 Player) *Game {
	p1.ID = PlayerOne
	p2.ID = PlayerTwo
	return &Game{
		opts:        opts,
		board:       NewBoard(opts.Size),
		players:     [2]Player{p1, p2},
		current:     PlayerOne,
		restriction: restriction{intervalSec: opts.RestrictionIntervalSec},
	}
}

func (g *Game) Options() Options {
	return g.opts
}

func (g *Game) Current() PlayerID {
	return g.current
}

func (g *Game) Player(id PlayerID) Player {
	if id == PlayerTwo {
		return g.players[1]
	}
	return g.players[0]
}

func (g *Game) Players() [2]Player {
	return g.players
}

func (g *Game) Score(p PlayerID) int {
	if !p.Valid() {
		return 0
	}
	return g.scores[p]
}

// Scores returns player one's and player two's scores.
func (g *Game) Scores() (int, int) {
	return g.scores[PlayerOne], g.scores[PlayerTwo]
}

func (g *Game) Passes() int {
	return g.passes
}

// Board returns a copy of the grid; the live board never leaves the game.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

// Points returns what p would score at (x,y) right now, legal or not.
func (g *Game) Points(x, y int) int {
	return g.board.Points(x, y)
}

func (g *Game) IsOver() bool {
	return g.over
}

func (g *Game) EndReason() EndReason {
	return g.reason
}

// Winner returns the player with the strictly higher score once the game is
// over. ok is false while the game runs and on a draw.
func (g *Game) Winner() (winner PlayerID, ok bool) {
	if !g.over {
		return NoPlayer, false
	}
	s1, s2 := g.Scores()
	switch {
	case s1 > s2:
		return PlayerOne, true
	case s2 > s1:
		return PlayerTwo, true
	default:
		return NoPlayer, false
	}
}

// Play claims (x,y) for the player on turn. Illegal moves leave the game
// untouched.
func (g *Game) Play(x, y int) (MoveResult, error) {
	p := g.current
	if err := g.CheckMove(p, x, y); err != nil {
		return MoveResult{}, err
	}
	pts, err := g.board.Place(p, x, y)
	if err != nil {
		return MoveResult{}, err
	}

	if !g.moved[p] {
		g.moved[p] = true
		if p == PlayerOne {
			g.firstMove = &Move{X: x, Y: y}
		}
	}
	g.scores[p] += pts
	g.passes = 0
	cleared := g.restriction.clearFor(p)
	g.current = p.Other()

	res := MoveResult{Player: p, Move: Move{X: x, Y: y}, Points: pts, RestrictionCleared: cleared}
	g.record(Event{Kind: EventMove, Player: p, X: x, Y: y, Points: pts})
	return res, nil
}

// Pass gives up the turn. Only allowed when the player on turn has no legal
// move; two passes in a row end the game.
func (g *Game) Pass() error {
	if g.over {
		return ErrGameOver
	}
	if g.HasLegalMove(g.current) {
		return ErrPassNotAllowed
	}
	p := g.current
	g.passes++
	g.current = p.Other()
	g.record(Event{Kind: EventPass, Player: p})
	if g.passes >= 2 {
		g.end(EndPasses)
	}
	return nil
}

// Finish ends the game early; the winner is decided on the current scores.
func (g *Game) Finish() error {
	if g.over {
		return ErrGameOver
	}
	g.record(Event{Kind: EventFinish, Player: g.current})
	g.end(EndManual)
	return nil
}

func (g *Game) end(reason EndReason) {
	g.over = true
	g.reason = reason
}

// Clone deep-copies the game. Nothing in the clone aliases the original.
func (g *Game) Clone() *Game {
	cp := g.cloneState()
	cp.history = append([]Event(nil), g.history...)
	return cp
}

// cloneState is Clone without the event log.
func (g *Game) cloneState() *Game {
	cp := *g
	cp.board = g.board.Clone()
	if g.firstMove != nil {
		fm := *g.firstMove
		cp.firstMove = &fm
	}
	cp.history = nil
	return &cp
}

// Simulate returns a clone in which p has played m, as if it were p's turn.
// The receiver is not modified.
func (g *Game) Simulate(p PlayerID, m Move) (*Game, error) {
	sim := g.cloneState()
	sim.current = p
	if _, err := sim.Play(m.X, m.Y); err != nil {
		return nil, err
	}
	return sim, nil
}
