package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "diagonal-squares/internal/api/http"
	"diagonal-squares/internal/api/ws"
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/room"
	"diagonal-squares/internal/store"
)

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if err := zc.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zc.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(gin.ReleaseMode)

	mem := store.NewMemoryStore()
	rm := room.NewManager(mem, *cfg, nil, log.Named("room"))
	hub := ws.NewHub(rm, log.Named("ws"))
	rm.SetHub(hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go rm.Run(ctx)

	r := httpapi.NewRouter(rm, hub, *cfg, log.Named("http"))

	log.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
