package game

type restriction struct {
	intervalSec int
	active      bool
	target      PlayerID
	next        int64
	scheduled   bool
}

// clearFor lifts the restriction if it targets p.
func (r *restriction) clearFor(p PlayerID) bool {
	if !r.active || r.target != p {
		return false
	}
	r.active = false
	r.target = NoPlayer
	return true
}

type RestrictionState struct {
	IntervalSec  int      `json:"intervalSec"`
	Active       bool     `json:"active"`
	Target       PlayerID `json:"target,omitempty"`
	NextActivate *int64   `json:"nextActivation,omitempty"`
}

type PollResult struct {
	Activated bool     `json:"activated"`
	Target    PlayerID `json:"target,omitempty"`
	// Unplayable is set when the target has no legal move under the freshly
	// activated restriction.
	Unplayable bool `json:"unplayable"`
}

func (g *Game) Restriction() RestrictionState {
	r := g.restriction
	st := RestrictionState{IntervalSec: r.intervalSec, Active: r.active, Target: r.target}
	if r.scheduled {
		next := r.next
		st.NextActivate = &next
	}
	return st
}

// ScheduleNext arms the restriction to fire intervalSec after nowMs. It
// replaces any earlier schedule.
func (g *Game) ScheduleNext(nowMs int64) {
	g.restriction.next = nowMs + int64(g.restriction.intervalSec)*1000
	g.restriction.scheduled = true
}

// Poll activates the restriction for the player on turn once its time has
// come. Activation consumes the schedule; nothing fires again until the
// caller calls ScheduleNext.
func (g *Game) Poll(nowMs int64) PollResult {
	r := &g.restriction
	if g.over || r.active || !r.scheduled || nowMs < r.next {
		return PollResult{}
	}
	return g.activateRestriction(g.current)
}

func (g *Game) activateRestriction(target PlayerID) PollResult {
	g.restriction.active = true
	g.restriction.target = target
	g.restriction.scheduled = false
	g.record(Event{Kind: EventRestriction, Player: target})
	res := PollResult{Activated: true, Target: target, Unplayable: !g.HasLegalMove(target)}
	if res.Unplayable && g.opts.EndOnRestrictionLock {
		g.end(EndRestrictionLock)
	}
	return res
}

// RemainingMs is the time left before the next activation. It is zero while
// the restriction is active and ok is false when nothing is scheduled.
func (g *Game) RemainingMs(nowMs int64) (ms int64, ok bool) {
	r := g.restriction
	if r.active {
		return 0, true
	}
	if !r.scheduled {
		return 0, false
	}
	if rem := r.next - nowMs; rem > 0 {
		return rem, true
	}
	return 0, true
}
