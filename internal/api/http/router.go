package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diagonal-squares/internal/api/ws"
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/room"
)

func NewRouter(rm *room.Manager, hub *ws.Hub, cfg config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	// WebSocket for live updates
	r.GET("/ws", hub.HandleWS)

	// --- ROOM ENDPOINTS ---
	r.POST("/create-room", CreateRoomHandler(rm, cfg.Defaults))
	r.POST("/new-game", NewGameHandler(rm, cfg.Defaults))
	r.GET("/state", StateHandler(rm))

	// --- GAME ENDPOINTS ---
	r.GET("/possible-moves", PossibleMovesHandler(rm))
	r.GET("/suggest", SuggestHandler(rm))
	r.POST("/move", MoveHandler(rm))
	r.POST("/pass", PassHandler(rm))
	r.POST("/move-bot", MoveBotHandler(rm))
	r.POST("/finish", FinishHandler(rm))

	// --- CONFIG ENDPOINTS ---
	r.GET("/config/defaults", ConfigDefaultsHandler(cfg))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
