// Package server exposes a read-only HTTP view of a running game for debugging.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Provider is the game surface the server reads from. Every method must be safe to call while the
// game is ticking.
type Provider interface {
	CurrentTick() uint64
	Snapshot() ([]ecs.EntitySnapshot, error)
	Search(params ecs.SearchParam) ([]map[string]any, error)
	Systems() []ecs.SystemInfo
	ComponentSchemas() (map[string]map[string]any, error)
}

type Server struct {
	app    *fiber.App
	logger zerolog.Logger
}

type Option func(*Server)

// WithLogger sets the logger used for request errors and lifecycle messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server and registers the debug routes.
func New(provider Provider, opts ...Option) *Server {
	s := &Server{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	s.app.Get("/health", GetHealth(provider))
	debug := s.app.Group("/debug")
	debug.Get("/state", GetDebugState(provider))
	debug.Get("/components", GetComponents(provider))
	debug.Get("/systems", GetSystems(provider))
	debug.Post("/search", PostSearch(provider))
	return s
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	s.logger.Info().Str("addr", addr).Msg("Debug server started")

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down debug server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return eris.Wrap(err, "failed to shut down debug server")
		}
		return nil
	case err := <-errCh:
		return eris.Wrap(err, "debug server stopped")
	}
}

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Message string `json:"message"`
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(code).JSON(ErrorResponse{Error: Error{Message: err.Error()}})
}

// Test runs a request against the routes without listening.
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req, -1)
}
