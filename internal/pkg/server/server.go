package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/settlement/internal/pkg/logger"
)

// DefaultShutdownTimeout bounds the drain when no timeout is configured
const DefaultShutdownTimeout = 30 * time.Second

// GracefulServer wraps Echo server with graceful shutdown capabilities
type GracefulServer struct {
	echo            *echo.Echo
	logger          *logger.ZapLogger
	port            int
	shutdownTimeout time.Duration
	components      *ShutdownManager
}

// NewGracefulServer creates a new server with graceful shutdown.
// Components registered on the returned server's manager are closed after
// the HTTP listener has drained.
func NewGracefulServer(e *echo.Echo, zapLogger *logger.ZapLogger, port int, shutdownTimeout time.Duration) *GracefulServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	return &GracefulServer{
		echo:            e,
		logger:          zapLogger,
		port:            port,
		shutdownTimeout: shutdownTimeout,
		components:      NewShutdownManager(zapLogger),
	}
}

// Components returns the manager run after the listener stops
func (s *GracefulServer) Components() *ShutdownManager {
	return s.components
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *GracefulServer) Start() error {
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		s.logger.Info("Starting HTTP server", logger.String("address", addr))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// SIGTERM is sent by Kubernetes or Docker
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		s.logger.Error("HTTP server failed", logger.Err(err))
		_ = s.Shutdown()
		return err
	}

	return s.Shutdown()
}

// Shutdown stops accepting requests, waits for in-flight ones, then closes
// registered components.
func (s *GracefulServer) Shutdown() error {
	s.logger.Info("Shutting down server gracefully...",
		logger.Duration("timeout", s.shutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.echo.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server forced to shutdown", logger.Err(err))
	}

	s.components.Shutdown(ctx)

	s.logger.Info("Server shutdown completed")
	return err
}

type component struct {
	name string
	fn   func(context.Context) error
}

// ShutdownManager closes registered components in registration order
type ShutdownManager struct {
	logger     *logger.ZapLogger
	components []component
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(zapLogger *logger.ZapLogger) *ShutdownManager {
	return &ShutdownManager{
		logger: zapLogger,
	}
}

// Register adds a named cleanup function
func (sm *ShutdownManager) Register(name string, fn func(context.Context) error) {
	sm.components = append(sm.components, component{name: name, fn: fn})
}

// Shutdown runs every cleanup function. A failing component does not stop
// the rest; the number of failures is returned.
func (sm *ShutdownManager) Shutdown(ctx context.Context) int {
	sm.logger.Info("Starting graceful shutdown of components", logger.Int("components", len(sm.components)))

	failed := 0
	for _, c := range sm.components {
		if err := c.fn(ctx); err != nil {
			failed++
			sm.logger.Error("Error during component shutdown",
				logger.String("component", c.name),
				logger.Err(err))
		}
	}

	sm.logger.Info("All components shutdown completed", logger.Int("failed", failed))
	return failed
}
