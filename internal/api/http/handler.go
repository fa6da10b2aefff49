package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"diagonal-squares/internal/ai"
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/game"
	"diagonal-squares/internal/room"
)

// statusFor maps a rejection to the HTTP status the client sees.
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, room.ErrInvalidPlayer):
		return http.StatusBadRequest
	case errors.Is(err, room.ErrNotYourTurn),
		errors.Is(err, room.ErrNotComputer),
		errors.Is(err, room.ErrComputerSeat),
		errors.Is(err, room.ErrNoLegalMove),
		errors.Is(err, game.ErrPassNotAllowed),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func lookup(c *gin.Context, rm *room.Manager, code string) (*room.Room, bool) {
	rx, ok := rm.Get(code)
	if !ok {
		fail(c, room.ErrRoomNotFound)
	}
	return rx, ok
}

// CreateRoomHandler opens a room and starts its first game. The body is
// optional; missing settings fall back to the server defaults.
func CreateRoomHandler(rm *room.Manager, defaults config.GameSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx := rm.CreateRoom(req.apply(defaults))
		c.JSON(http.StatusOK, gin.H{"roomCode": rx.Code, "room": rm.View(rx)})
	}
}

func StateHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q roomQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		rx, ok := lookup(c, rm, q.RoomCode)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rm.View(rx)})
	}
}

// PossibleMovesHandler lists every cell the player could claim right now.
func PossibleMovesHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q playerQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode and player required"})
			return
		}
		rx, ok := lookup(c, rm, q.RoomCode)
		if !ok {
			return
		}
		moves, err := rm.LegalMoves(rx, game.PlayerID(q.Player))
		if err != nil {
			fail(c, err)
			return
		}
		if moves == nil {
			moves = []game.Move{}
		}
		c.JSON(http.StatusOK, gin.H{"moves": moves, "count": len(moves)})
	}
}

func MoveHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx, ok := lookup(c, rm, req.RoomCode)
		if !ok {
			return
		}
		res, err := rm.ApplyMove(rx, req.Player, req.X, req.Y)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "result": res, "room": rm.View(rx)})
	}
}

func PassHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx, ok := lookup(c, rm, req.RoomCode)
		if !ok {
			return
		}
		if err := rm.Pass(rx, req.Player); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "room": rm.View(rx)})
	}
}

// MoveBotHandler makes the computer on turn move without waiting for its delay.
func MoveBotHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx, ok := lookup(c, rm, req.RoomCode)
		if !ok {
			return
		}
		res, err := rm.BotMove(rx, req.Player)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"x":      res.Move.X,
			"y":      res.Move.Y,
			"result": res,
			"room":   rm.View(rx),
		})
	}
}

// SuggestHandler returns the move the AI would play; level defaults to 3.
func SuggestHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q playerQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode and player required"})
			return
		}
		rx, ok := lookup(c, rm, q.RoomCode)
		if !ok {
			return
		}
		lvl := ai.LevelLookahead
		if q.Level != 0 {
			lvl = ai.ParseLevel(q.Level)
		}
		mv, err := rm.SuggestMove(rx, game.PlayerID(q.Player), lvl)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"x": mv.X, "y": mv.Y, "level": lvl})
	}
}

func NewGameHandler(rm *room.Manager, defaults config.GameSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NewGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx, ok := lookup(c, rm, req.RoomCode)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rm.NewGame(rx, req.apply(defaults))})
	}
}

func FinishHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx, ok := lookup(c, rm, req.RoomCode)
		if !ok {
			return
		}
		if err := rm.Finish(rx); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "room": rm.View(rx)})
	}
}

// ConfigDefaultsHandler reports the settings a room gets when the client
// sends none, together with the accepted ranges.
func ConfigDefaultsHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"defaults": cfg.Defaults,
			"limits": gin.H{
				"boardSize":              []int{config.MinBoardSize, config.MaxBoardSize},
				"restrictionIntervalSec": []int{config.MinRestrictionIntervalSec, config.MaxRestrictionIntervalSec},
				"aiLevel":                []int{int(ai.LevelRandom), int(ai.LevelLookahead)},
			},
			"modes": []config.Mode{config.ModeHumanVsHuman, config.ModeHumanVsComputer, config.ModeComputerVsComputer},
		})
	}
}
