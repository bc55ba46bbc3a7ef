package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stahp-game/stahp-backend/internal/config"
	"github.com/stahp-game/stahp-backend/internal/game"
)

type Server struct {
	addr   string
	logger *zap.Logger
	room   *game.Room
}

func New(cfg config.Config, logger *zap.Logger, room *game.Room) *Server {
	return &Server{
		addr:   fmt.Sprintf(":%d", cfg.Port),
		logger: logger,
		room:   room,
	}
}

// ListenAndServe blocks serving the HTTP and websocket surface.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info("listening", zap.String("addr", s.addr))
	return srv.ListenAndServe()
}
