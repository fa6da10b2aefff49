package room

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"diagonal-squares/internal/ai"
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/game"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotYourTurn   = errors.New("not your turn or player invalid")
	ErrNotComputer   = errors.New("player on turn is not a computer")
	ErrComputerSeat  = errors.New("seat is played by the computer")
	ErrNoLegalMove   = errors.New("no legal moves available")
	ErrInvalidPlayer = errors.New("player must be 1 or 2")
)

type Manager struct {
	store Store
	cfg   config.Config
	hub   Broadcaster
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(s Store, cfg config.Config, hub Broadcaster, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{store: s, cfg: cfg, hub: hub, log: log, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetHub wires the broadcaster after construction; the hub itself needs the
// manager.
func (m *Manager) SetHub(hub Broadcaster) {
	m.hub = hub
}

// broadcast queues an event; it goes out once the room lock is released.
// Callers hold r.mu.
func (m *Manager) broadcast(r *Room, action string, data interface{}) {
	r.outbox = append(r.outbox, outgoing{action: action, data: data})
}

// unlock releases r.mu and then delivers the queued events. flushMu is taken
// before r.mu is let go so a room's events reach the hub in order.
func (m *Manager) unlock(r *Room) {
	out := r.outbox
	r.outbox = nil
	if len(out) == 0 || m.hub == nil {
		r.mu.Unlock()
		return
	}
	r.flushMu.Lock()
	r.mu.Unlock()
	defer r.flushMu.Unlock()
	for _, o := range out {
		m.hub.Broadcast(r.Code, o.action, o.data)
	}
}

func (m *Manager) CreateRoom(settings config.GameSettings) *Room {
	now := m.now()
	code := randCode(6)
	for _, taken := m.store.GetRoom(code); taken; _, taken = m.store.GetRoom(code) {
		code = randCode(6)
	}
	r := &Room{
		ID:        uuid.NewString(),
		Code:      code,
		createdAt: now,
	}
	r.mu.Lock()
	m.startGame(r, settings)
	m.store.SaveRoom(r)
	m.unlock(r)
	m.log.Info("room created",
		zap.String("room", r.Code),
		zap.String("id", r.ID),
		zap.Int("size", r.settings.BoardSize),
		zap.String("mode", string(r.settings.Mode)),
	)
	return r
}

func (m *Manager) Get(code string) (*Room, bool) {
	return m.store.GetRoom(code)
}

// NewGame throws the room's current game away, including any pending
// computer move and restriction countdown, and starts a fresh one.
func (m *Manager) NewGame(r *Room, settings config.GameSettings) RoomView {
	r.mu.Lock()
	defer m.unlock(r)
	m.startGame(r, settings)
	m.store.SaveRoom(r)
	v := r.view(m.now())
	m.log.Info("new game", zap.String("room", r.Code), zap.Int("generation", r.generation))
	m.broadcast(r, ActionStateUpdated, gin.H{"room": v})
	return v
}

func (m *Manager) startGame(r *Room, settings config.GameSettings) {
	now := m.now()
	s := settings.Clamp()
	seed := s.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	p1, p2 := s.Players()
	r.settings = s
	r.game = game.New(s.GameOptions(), p1, p2)
	r.bot = ai.NewSeeded(seed)
	r.generation++
	r.startedAt = now
	r.aiDueAt = time.Time{}
	r.endedAt = time.Time{}
	r.game.ScheduleNext(now.UnixMilli())
	m.afterTurn(r)
}

func (m *Manager) View(r *Room) RoomView {
	r.mu.Lock()
	defer m.unlock(r)
	return r.view(m.now())
}

func (m *Manager) LegalMoves(r *Room, player game.PlayerID) ([]game.Move, error) {
	if !player.Valid() {
		return nil, ErrInvalidPlayer
	}
	r.mu.Lock()
	defer m.unlock(r)
	return r.game.LegalMoves(player), nil
}

// ApplyMove plays a human move for player.
func (m *Manager) ApplyMove(r *Room, player game.PlayerID, x, y int) (game.MoveResult, error) {
	r.mu.Lock()
	defer m.unlock(r)
	if err := m.checkTurn(r, player); err != nil {
		return game.MoveResult{}, err
	}
	if r.game.Player(player).IsComputer {
		return game.MoveResult{}, ErrComputerSeat
	}
	return m.play(r, game.Move{X: x, Y: y})
}

// BotMove lets the computer on turn choose and play its move now.
func (m *Manager) BotMove(r *Room, player game.PlayerID) (game.MoveResult, error) {
	r.mu.Lock()
	defer m.unlock(r)
	if err := m.checkTurn(r, player); err != nil {
		return game.MoveResult{}, err
	}
	if !r.game.Player(player).IsComputer {
		return game.MoveResult{}, ErrNotComputer
	}
	return m.botMove(r)
}

// SuggestMove asks the AI what player could play at the given level. The
// room's own AI stream is left alone so suggestions never change what the
// computer seats will do.
func (m *Manager) SuggestMove(r *Room, player game.PlayerID, lvl ai.Level) (game.Move, error) {
	if !player.Valid() {
		return game.Move{}, ErrInvalidPlayer
	}
	r.mu.Lock()
	defer m.unlock(r)
	bot := ai.New(rand.New(rand.NewSource(m.now().UnixNano())))
	mv, ok := bot.ChooseMove(r.game, player, lvl)
	if !ok {
		return game.Move{}, ErrNoLegalMove
	}
	return mv, nil
}

// Pass is only accepted when the player on turn has no legal move.
func (m *Manager) Pass(r *Room, player game.PlayerID) error {
	r.mu.Lock()
	defer m.unlock(r)
	if err := m.checkTurn(r, player); err != nil {
		return err
	}
	if err := r.game.Pass(); err != nil {
		return err
	}
	m.log.Info("pass", zap.String("room", r.Code), zap.Int("player", int(player)))
	m.broadcast(r, ActionPassed, gin.H{"player": player, "room": r.view(m.now())})
	m.afterTurn(r)
	return nil
}

// Finish ends the room's game early.
func (m *Manager) Finish(r *Room) error {
	r.mu.Lock()
	defer m.unlock(r)
	if err := r.game.Finish(); err != nil {
		return err
	}
	r.aiDueAt = time.Time{}
	m.gameOver(r)
	return nil
}

// Tick polls the restriction timer and plays a due computer move.
func (m *Manager) Tick(r *Room) {
	r.mu.Lock()
	defer m.unlock(r)
	g := r.game
	if g.IsOver() {
		return
	}
	now := m.now()
	if res := g.Poll(now.UnixMilli()); res.Activated {
		m.log.Info("restriction activated",
			zap.String("room", r.Code),
			zap.Int("target", int(res.Target)),
			zap.Bool("unplayable", res.Unplayable),
		)
		m.broadcast(r, ActionRestrictionActivated, gin.H{"target": res.Target, "unplayable": res.Unplayable, "room": r.view(now)})
		if res.Unplayable || g.IsOver() {
			m.afterTurn(r)
			return
		}
	}
	if r.aiDueAt.IsZero() || now.Before(r.aiDueAt) {
		return
	}
	if _, err := m.botMove(r); err != nil {
		m.log.Warn("computer move failed", zap.String("room", r.Code), zap.Error(err))
	}
}

// Run ticks every room until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	t := time.NewTicker(m.cfg.PollInterval())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, r := range m.store.ListRooms() {
				m.Tick(r)
			}
			m.Sweep()
		}
	}
}

// Sweep drops rooms whose game ended at least FinishedRoomTTL ago and
// reports how many went.
func (m *Manager) Sweep() int {
	ttl := m.cfg.FinishedRoomTTL()
	if ttl <= 0 {
		return 0
	}
	now := m.now()
	n := 0
	for _, r := range m.store.ListRooms() {
		r.mu.Lock()
		if r.game.IsOver() && !r.endedAt.IsZero() && now.Sub(r.endedAt) >= ttl {
			m.store.DeleteRoom(r.Code)
			m.log.Info("room evicted", zap.String("room", r.Code))
			n++
		}
		r.mu.Unlock()
	}
	return n
}

func (m *Manager) checkTurn(r *Room, player game.PlayerID) error {
	if r.game.IsOver() {
		return game.ErrGameOver
	}
	if !player.Valid() || r.game.Current() != player {
		return ErrNotYourTurn
	}
	return nil
}

func (m *Manager) botMove(r *Room) (game.MoveResult, error) {
	me := r.game.Current()
	mv, ok := r.bot.ChooseMove(r.game, me, r.settings.AILevel(me))
	if !ok {
		return game.MoveResult{}, ErrNoLegalMove
	}
	return m.play(r, mv)
}

// play is the single mutation path for placements, human or computer.
func (m *Manager) play(r *Room, mv game.Move) (game.MoveResult, error) {
	res, err := r.game.Play(mv.X, mv.Y)
	if err != nil {
		m.log.Debug("move rejected",
			zap.String("room", r.Code),
			zap.Int("x", mv.X), zap.Int("y", mv.Y),
			zap.Error(err),
		)
		return res, err
	}
	now := m.now()
	// The countdown restarts after every placement.
	r.game.ScheduleNext(now.UnixMilli())
	m.log.Info("move",
		zap.String("room", r.Code),
		zap.Int("player", int(res.Player)),
		zap.Int("x", mv.X), zap.Int("y", mv.Y),
		zap.Int("points", res.Points),
		zap.Bool("restriction_cleared", res.RestrictionCleared),
	)
	m.broadcast(r, ActionMoveApplied, gin.H{"result": res, "room": r.view(now)})
	m.afterTurn(r)
	return res, nil
}

// afterTurn passes for whoever is on turn while they are stuck, then either
// reports the end of the game or arms the computer's next move.
func (m *Manager) afterTurn(r *Room) {
	g := r.game
	for !g.IsOver() && !g.HasLegalMove(g.Current()) {
		p := g.Current()
		if err := g.Pass(); err != nil {
			m.log.Error("forced pass failed", zap.String("room", r.Code), zap.Error(err))
			break
		}
		m.log.Info("forced pass", zap.String("room", r.Code), zap.Int("player", int(p)))
		m.broadcast(r, ActionPassed, gin.H{"player": p, "forced": true})
	}
	if g.IsOver() {
		r.aiDueAt = time.Time{}
		m.gameOver(r)
		return
	}
	if g.Player(g.Current()).IsComputer {
		r.aiDueAt = m.now().Add(m.aiDelay(r))
	} else {
		r.aiDueAt = time.Time{}
	}
}

func (m *Manager) aiDelay(r *Room) time.Duration {
	if r.settings.Mode == config.ModeComputerVsComputer {
		return m.cfg.AIVsAIDelay()
	}
	return m.cfg.HumanAIDelay()
}

func (m *Manager) gameOver(r *Room) {
	g := r.game
	r.endedAt = m.now()
	s1, s2 := g.Scores()
	winner, ok := g.Winner()
	m.log.Info("game over",
		zap.String("room", r.Code),
		zap.Stringer("reason", g.EndReason()),
		zap.Int("score_p1", s1),
		zap.Int("score_p2", s2),
		zap.Int("winner", int(winner)),
		zap.Bool("draw", !ok),
	)
	m.broadcast(r, ActionGameOver, gin.H{
		"winner": winner,
		"draw":   !ok,
		"reason": g.EndReason(),
		"room":   r.view(m.now()),
	})
}

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randCode(n int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}
