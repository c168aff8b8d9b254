// Package server wires the store, engine services, and background
// runners behind an echo HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/notabase/notabase/internal/profile"
	"github.com/notabase/notabase/plugin/ai"
	"github.com/notabase/notabase/server/middleware"
	apiv1 "github.com/notabase/notabase/server/router/api/v1"
	"github.com/notabase/notabase/server/runner/embedding"
	notesvc "github.com/notabase/notabase/server/service/note"
	"github.com/notabase/notabase/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer      *echo.Echo
	embeddingRunner *embedding.Runner
}

func NewServer(ctx context.Context, profile *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(requestLogger())
	e.Use(middleware.NewRateLimiter(10, 20).Middleware())

	embedderCfg := ai.NewEmbeddingConfigFromProfile(profile)
	embedder, err := ai.NewEmbeddingService(embedderCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create embedding service")
	}

	noteService := notesvc.NewService(st, slog.Default())
	apiService := apiv1.NewAPIV1Service(profile, st, noteService, embedder)
	apiService.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": profile.Version})
	})

	s := &Server{
		Profile:    profile,
		Store:      st,
		echoServer: e,
	}
	// Embedding backfill needs vector storage, which only postgres has.
	if profile.Driver == "postgres" {
		s.embeddingRunner = embedding.NewRunner(st, embedder, embedderCfg.Model)
	}
	return s, nil
}

// Start runs the HTTP server and background runners until ctx is
// canceled.
func (s *Server) Start(ctx context.Context) error {
	if s.embeddingRunner != nil {
		go s.embeddingRunner.Run(ctx)
	}

	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "addr", addr, "mode", s.Profile.Mode, "driver", s.Profile.Driver)
	if err := s.echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}

// requestLogger logs one line per request with latency and status.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	})
}
