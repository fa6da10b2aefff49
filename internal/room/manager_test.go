package room

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"diagonal-squares/internal/config"
	"diagonal-squares/internal/game"
)

type mapStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func (s *mapStore) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

func (s *mapStore) SaveRoom(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.Code] = r
}

func (s *mapStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

func (s *mapStore) ListRooms() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}

type recorder struct {
	mu      sync.Mutex
	actions []string
}

func (r *recorder) Broadcast(_ string, action string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *recorder) count(action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a == action {
			n++
		}
	}
	return n
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager() (*Manager, *recorder, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rec := &recorder{}
	m := NewManager(&mapStore{rooms: map[string]*Room{}}, config.Default(), rec, zap.NewNop(), WithClock(clock.now))
	return m, rec, clock
}

func settings(mode config.Mode) config.GameSettings {
	s := config.DefaultGameSettings()
	s.BoardSize = 5
	s.Mode = mode
	s.AILevelP1 = 3
	s.AILevelP2 = 3
	s.Seed = 11
	return s
}

func TestHumanMovesAndRejections(t *testing.T) {
	m, rec, _ := newTestManager()
	r := m.CreateRoom(settings(config.ModeHumanVsHuman))
	if got, ok := m.Get(r.Code); !ok || got != r {
		t.Fatalf("room not stored")
	}

	res, err := m.ApplyMove(r, game.PlayerOne, 2, 2)
	if err != nil {
		t.Fatalf("first move: %v", err)
	}
	if res.Points != 1 {
		t.Fatalf("expected 1 point, got %d", res.Points)
	}
	if _, err := m.ApplyMove(r, game.PlayerOne, 0, 0); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := m.ApplyMove(r, game.PlayerTwo, 2, 3); !errors.Is(err, game.ErrFirstMoveAdjacent) {
		t.Fatalf("expected ErrFirstMoveAdjacent, got %v", err)
	}
	if err := m.Pass(r, game.PlayerTwo); !errors.Is(err, game.ErrPassNotAllowed) {
		t.Fatalf("expected ErrPassNotAllowed, got %v", err)
	}
	if _, err := m.BotMove(r, game.PlayerTwo); !errors.Is(err, ErrNotComputer) {
		t.Fatalf("expected ErrNotComputer, got %v", err)
	}
	if rec.count(ActionMoveApplied) != 1 {
		t.Fatalf("expected one move broadcast, got %d", rec.count(ActionMoveApplied))
	}
	v := m.View(r)
	if v.State.Current != game.PlayerTwo || v.State.Scores[game.PlayerOne] != 1 {
		t.Fatalf("unexpected view %+v", v.State)
	}
}

func TestComputerMovesAfterDelay(t *testing.T) {
	m, _, clock := newTestManager()
	r := m.CreateRoom(settings(config.ModeHumanVsComputer))

	if _, err := m.ApplyMove(r, game.PlayerOne, 0, 0); err != nil {
		t.Fatalf("human move: %v", err)
	}
	if _, err := m.ApplyMove(r, game.PlayerTwo, 4, 4); !errors.Is(err, ErrComputerSeat) {
		t.Fatalf("expected ErrComputerSeat, got %v", err)
	}

	clock.advance(50 * time.Millisecond)
	m.Tick(r)
	if m.View(r).State.Current != game.PlayerTwo {
		t.Fatalf("computer moved before its delay")
	}

	clock.advance(config.Default().HumanAIDelay())
	m.Tick(r)
	v := m.View(r)
	if v.State.Current != game.PlayerOne || v.State.Scores[game.PlayerTwo] == 0 {
		t.Fatalf("expected the computer to have moved, got %+v", v.State)
	}
}

func TestTickActivatesRestriction(t *testing.T) {
	m, rec, clock := newTestManager()
	r := m.CreateRoom(settings(config.ModeHumanVsHuman))

	clock.advance(4999 * time.Millisecond)
	m.Tick(r)
	if m.View(r).State.Restriction.Active {
		t.Fatalf("restriction active too early")
	}
	clock.advance(time.Millisecond)
	m.Tick(r)
	st := m.View(r).State.Restriction
	if !st.Active || st.Target != game.PlayerOne {
		t.Fatalf("expected restriction on player one, got %+v", st)
	}
	if rec.count(ActionRestrictionActivated) != 1 {
		t.Fatalf("expected a restriction broadcast")
	}

	res, err := m.ApplyMove(r, game.PlayerOne, 2, 2)
	if err != nil {
		t.Fatalf("move under restriction: %v", err)
	}
	if !res.RestrictionCleared {
		t.Fatalf("targeted player's move should clear the restriction")
	}
	v := m.View(r)
	if v.State.RemainingMs == nil || *v.State.RemainingMs != 5000 {
		t.Fatalf("countdown should restart after a move, got %v", v.State.RemainingMs)
	}
}

func playComputerGame(t *testing.T, m *Manager, clock *fakeClock, r *Room) {
	t.Helper()
	for i := 0; i < 500 && !m.View(r).State.Over; i++ {
		clock.advance(config.Default().AIVsAIDelay())
		m.Tick(r)
	}
	if !m.View(r).State.Over {
		t.Fatalf("computer game did not finish")
	}
}

func TestComputerVsComputerPlaysToTheEnd(t *testing.T) {
	m, rec, clock := newTestManager()
	r := m.CreateRoom(settings(config.ModeComputerVsComputer))
	playComputerGame(t, m, clock, r)

	if rec.count(ActionGameOver) != 1 {
		t.Fatalf("expected exactly one game-over broadcast, got %d", rec.count(ActionGameOver))
	}
	st := m.View(r).State
	if st.EndReason != game.EndPasses {
		t.Fatalf("expected the game to end on passes, got %v", st.EndReason)
	}
	if st.Winner == game.NoPlayer && !st.Draw {
		t.Fatalf("finished game must have a winner or be a draw")
	}
}

func TestComputerGamesAreReproducible(t *testing.T) {
	histories := make([][]game.Event, 2)
	for i := range histories {
		m, _, clock := newTestManager()
		r := m.CreateRoom(settings(config.ModeComputerVsComputer))
		playComputerGame(t, m, clock, r)
		r.mu.Lock()
		histories[i] = r.game.History()
		r.mu.Unlock()
	}
	if !reflect.DeepEqual(histories[0], histories[1]) {
		t.Fatalf("same seed and clock produced different games")
	}
}

func TestNewGameReplacesEverything(t *testing.T) {
	m, _, clock := newTestManager()
	r := m.CreateRoom(settings(config.ModeComputerVsComputer))
	clock.advance(config.Default().AIVsAIDelay())
	m.Tick(r)
	if m.View(r).State.Turns == 0 {
		t.Fatalf("expected the computer to have moved")
	}

	next := settings(config.ModeHumanVsHuman)
	next.BoardSize = 7
	v := m.NewGame(r, next)
	if v.Generation != 2 || v.State.Size != 7 || v.State.Turns != 0 {
		t.Fatalf("unexpected view after new game: generation=%d size=%d turns=%d", v.Generation, v.State.Size, v.State.Turns)
	}
	clock.advance(time.Second)
	m.Tick(r)
	if m.View(r).State.Turns != 0 {
		t.Fatalf("a pending computer move from the old game leaked into the new one")
	}
}

func TestFinishAndSuggest(t *testing.T) {
	m, rec, _ := newTestManager()
	r := m.CreateRoom(settings(config.ModeHumanVsHuman))

	mv, err := m.SuggestMove(r, game.PlayerOne, 3)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if mv != (game.Move{X: 2, Y: 2}) {
		t.Fatalf("expected lookahead to suggest the center, got %+v", mv)
	}
	if m.View(r).State.Turns != 0 {
		t.Fatalf("suggestions must not play")
	}

	if err := m.Finish(r); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if rec.count(ActionGameOver) != 1 {
		t.Fatalf("expected a game-over broadcast")
	}
	if _, err := m.ApplyMove(r, game.PlayerOne, 0, 0); !errors.Is(err, game.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if err := m.Finish(r); !errors.Is(err, game.ErrGameOver) {
		t.Fatalf("expected ErrGameOver on second finish, got %v", err)
	}
	if _, err := m.LegalMoves(r, 3); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("expected ErrInvalidPlayer, got %v", err)
	}
}

// gate blocks every broadcast until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gate) Broadcast(string, string, interface{}) {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
}

func TestBroadcastRunsOutsideRoomLock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewManager(&mapStore{rooms: map[string]*Room{}}, config.Default(), nil, zap.NewNop(), WithClock(clock.now))
	r := m.CreateRoom(settings(config.ModeHumanVsHuman))

	g := &gate{entered: make(chan struct{}, 1), release: make(chan struct{})}
	m.SetHub(g)
	defer close(g.release)

	go func() { _, _ = m.ApplyMove(r, game.PlayerOne, 2, 2) }()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("move was never broadcast")
	}

	viewed := make(chan RoomView, 1)
	go func() { viewed <- m.View(r) }()
	select {
	case v := <-viewed:
		if v.State.Turns != 1 {
			t.Fatalf("expected the move to be applied, got %d turns", v.State.Turns)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("a stuck broadcast is holding the room lock")
	}
}

// fillEvenCells plays every cell with x+y even, alternating players, which
// leaves each empty cell with an occupied side neighbour. Player two is on
// turn afterwards.
func fillEvenCells(t *testing.T, m *Manager, r *Room) {
	t.Helper()
	n := r.settings.BoardSize
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 != 0 {
				continue
			}
			cur := m.View(r).State.Current
			if _, err := m.ApplyMove(r, cur, x, y); err != nil {
				t.Fatalf("play (%d,%d): %v", x, y, err)
			}
		}
	}
}

func TestRestrictionLockInRoom(t *testing.T) {
	tests := []struct {
		name      string
		endOnLock bool
	}{
		{"two-pass rule", false},
		{"immediate end", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec, clock := newTestManager()
			s := settings(config.ModeHumanVsHuman)
			s.DiagonalRule = false
			s.EndOnRestrictionLock = tt.endOnLock
			r := m.CreateRoom(s)
			fillEvenCells(t, m, r)
			if cur := m.View(r).State.Current; cur != game.PlayerTwo {
				t.Fatalf("expected player two on turn, got %d", cur)
			}

			clock.advance(5 * time.Second)
			m.Tick(r)
			st := m.View(r).State
			if rec.count(ActionRestrictionActivated) != 1 {
				t.Fatalf("expected a restriction broadcast")
			}

			if tt.endOnLock {
				if !st.Over || st.EndReason != game.EndRestrictionLock {
					t.Fatalf("expected restriction-lock end, got over=%v reason=%v", st.Over, st.EndReason)
				}
				if rec.count(ActionGameOver) != 1 {
					t.Fatalf("expected a game-over broadcast")
				}
				return
			}
			if st.Over {
				t.Fatalf("game should continue under the two-pass rule")
			}
			if st.Current != game.PlayerOne || st.Passes != 1 {
				t.Fatalf("expected player two to be passed, got current=%d passes=%d", st.Current, st.Passes)
			}
			if rec.count(ActionPassed) != 1 {
				t.Fatalf("expected one pass broadcast, got %d", rec.count(ActionPassed))
			}
		})
	}
}

func TestSweepEvictsFinishedRooms(t *testing.T) {
	m, _, clock := newTestManager()
	ttl := config.Default().FinishedRoomTTL()
	done := m.CreateRoom(settings(config.ModeHumanVsHuman))
	live := m.CreateRoom(settings(config.ModeHumanVsHuman))
	if err := m.Finish(done); err != nil {
		t.Fatalf("finish: %v", err)
	}

	clock.advance(ttl - time.Second)
	if n := m.Sweep(); n != 0 {
		t.Fatalf("evicted %d rooms too early", n)
	}
	clock.advance(time.Second)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if _, ok := m.Get(done.Code); ok {
		t.Fatalf("finished room still stored")
	}
	if _, ok := m.Get(live.Code); !ok {
		t.Fatalf("running room was evicted")
	}
}
