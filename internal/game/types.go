package game

type PlayerID int

const (
	NoPlayer  PlayerID = 0
	PlayerOne PlayerID = 1
	PlayerTwo PlayerID = 2
)

// Other returns the opponent of p.
func (p PlayerID) Other() PlayerID {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p PlayerID) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

type Player struct {
	ID         PlayerID `json:"id"`
	Name       string   `json:"name"`
	IsComputer bool     `json:"isComputer"`
}

type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ManhattanTo returns |dx|+|dy| between two moves.
func (m Move) ManhattanTo(o Move) int {
	return abs(m.X-o.X) + abs(m.Y-o.Y)
}

// Options is the shape of a game. It is fixed for the game's lifetime and is
// expected to be validated by the caller.
type Options struct {
	Size                   int  `json:"size"`
	RestrictionIntervalSec int  `json:"restrictionIntervalSec"`
	LineLengthLimit        int  `json:"lineLengthLimit"` // 0 disables the cap
	DiagonalRule           bool `json:"diagonalRule"`
	// EndOnRestrictionLock ends the game as soon as an activated restriction
	// leaves its target without a legal move, instead of waiting for two passes.
	EndOnRestrictionLock bool `json:"endOnRestrictionLock"`
}

type MoveResult struct {
	Player             PlayerID `json:"player"`
	Move               Move     `json:"move"`
	Points             int      `json:"points"`
	RestrictionCleared bool     `json:"restrictionCleared"`
}

type EndReason int

const (
	EndNone EndReason = iota
	EndPasses
	EndRestrictionLock
	EndManual
)

func (r EndReason) String() string {
	switch r {
	case EndPasses:
		return "passes"
	case EndRestrictionLock:
		return "restriction-lock"
	case EndManual:
		return "manual"
	default:
		return ""
	}
}

func (r EndReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
