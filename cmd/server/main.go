package main

import (
	"go.uber.org/zap"

	"github.com/stahp-game/stahp-backend/internal/config"
	"github.com/stahp-game/stahp-backend/internal/game"
	"github.com/stahp-game/stahp-backend/internal/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	room := game.NewRoom(game.Config{
		SettleDelay: cfg.SettleDelay,
		Logger:      logger.Named("room"),
	})

	srv := server.New(cfg, logger, room)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
