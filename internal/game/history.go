package game

import "fmt"

type EventKind int

const (
	EventMove EventKind = iota
	EventPass
	EventRestriction
	EventFinish
)

func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventPass:
		return "pass"
	case EventRestriction:
		return "restriction"
	case EventFinish:
		return "finish"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one entry of the game log. X, Y and Points are only meaningful
// for moves; for a restriction, Player is its target.
type Event struct {
	Kind   EventKind `json:"kind"`
	Player PlayerID  `json:"player"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Points int       `json:"points,omitempty"`
}

func (g *Game) record(e Event) {
	g.history = append(g.history, e)
}

func (g *Game) History() []Event {
	return append([]Event(nil), g.history...)
}

// LastMove returns the most recent placement, if any.
func (g *Game) LastMove() (Move, bool) {
	for i := len(g.history) - 1; i >= 0; i-- {
		if e := g.history[i]; e.Kind == EventMove {
			return Move{X: e.X, Y: e.Y}, true
		}
	}
	return Move{}, false
}

// turns counts placements and passes; restriction and finish events are
// not turns.
func (g *Game) turns() int {
	n := 0
	for _, e := range g.history {
		if e.Kind == EventMove || e.Kind == EventPass {
			n++
		}
	}
	return n
}

// Replay rebuilds a game from its options, players and event log. Every
// event goes through the same checks as live play.
func Replay(opts Options, p1, p2 Player, events []Event) (*Game, error) {
	g := New(opts, p1, p2)
	for i, e := range events {
		if e.Player != g.current && e.Kind != EventFinish {
			return nil, fmt.Errorf("replay event %d (%s by %d): %w", i, e.Kind, e.Player, ErrOutOfTurn)
		}
		var err error
		switch e.Kind {
		case EventMove:
			_, err = g.Play(e.X, e.Y)
		case EventPass:
			err = g.Pass()
		case EventRestriction:
			if g.over {
				err = ErrGameOver
				break
			}
			g.activateRestriction(e.Player)
		case EventFinish:
			err = g.Finish()
		default:
			err = fmt.Errorf("unknown event kind %d", int(e.Kind))
		}
		if err != nil {
			return nil, fmt.Errorf("replay event %d (%s): %w", i, e.Kind, err)
		}
	}
	return g, nil
}

// Snapshot is the read-only view handed to presentation layers.
type Snapshot struct {
	Size        int              `json:"size"`
	Board       [][]int          `json:"board"`
	Players     [2]Player        `json:"players"`
	Current     PlayerID         `json:"current"`
	Scores      map[PlayerID]int `json:"scores"`
	Passes      int              `json:"passes"`
	Over        bool             `json:"over"`
	Winner      PlayerID         `json:"winner,omitempty"`
	Draw        bool             `json:"draw"`
	EndReason   EndReason        `json:"endReason,omitempty"`
	Restriction RestrictionState `json:"restriction"`
	RemainingMs *int64           `json:"remainingMs,omitempty"`
	LastMove    *Move            `json:"lastMove,omitempty"`
	Turns       int              `json:"turns"`
}

func (g *Game) Snapshot(nowMs int64) Snapshot {
	s1, s2 := g.Scores()
	snap := Snapshot{
		Size:        g.board.Size(),
		Board:       g.board.Rows(),
		Players:     g.players,
		Current:     g.current,
		Scores:      map[PlayerID]int{PlayerOne: s1, PlayerTwo: s2},
		Passes:      g.passes,
		Over:        g.over,
		EndReason:   g.reason,
		Restriction: g.Restriction(),
		Turns:       g.turns(),
	}
	if w, ok := g.Winner(); ok {
		snap.Winner = w
	} else if g.over {
		snap.Draw = true
	}
	if rem, ok := g.RemainingMs(nowMs); ok {
		snap.RemainingMs = &rem
	}
	if m, ok := g.LastMove(); ok {
		snap.LastMove = &m
	}
	return snap
}
