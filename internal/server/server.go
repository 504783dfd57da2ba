// Package server wraps the HTTP listener in a start/stop lifecycle:
//
//	Created -> Starting -> Running -> Stopping -> Stopped
//
// Start binds synchronously and serves in the background. Stop stops
// accepting connections, drains in-flight requests for the grace window and
// then closes whatever is left. A stopped server may be started again.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unclebandit/customer-service/internal/logging"
)

const (
	MinGracePeriod = 1 * time.Second
	MaxGracePeriod = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// ErrInvalidState is returned by Start when the server is not startable.
var ErrInvalidState = errors.New("invalid lifecycle state")

// State is a lifecycle state.
type State int32

const (
	StateCreated State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// ClampGracePeriod bounds d to [MinGracePeriod, MaxGracePeriod].
func ClampGracePeriod(d time.Duration) time.Duration {
	switch {
	case d < MinGracePeriod:
		return MinGracePeriod
	case d > MaxGracePeriod:
		return MaxGracePeriod
	}
	return d
}

type Options struct {
	// Host may be empty to listen on all interfaces.
	Host string
	// Port 0 picks a free port; see Addr.
	Port        int
	GracePeriod time.Duration
	Handler     http.Handler
	Logger      *slog.Logger
}

type Server struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger
	state  atomic.Int32

	srv  *http.Server
	addr net.Addr
	done chan struct{}
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	opts.GracePeriod = ClampGracePeriod(opts.GracePeriod)
	return &Server{opts: opts, logger: logger}
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Addr returns the bound address while running, nil otherwise.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// GracePeriod is the clamped drain window used by Stop.
func (s *Server) GracePeriod() time.Duration {
	return s.opts.GracePeriod
}

func (s *Server) setState(next State) {
	prev := State(s.state.Swap(int32(next)))
	s.logger.Debug("service state changed", "from", prev, "to", next)
}

// Start binds the listener and begins serving without blocking.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st := s.State(); st != StateCreated && st != StateStopped {
		return fmt.Errorf("%w: cannot start while %s", ErrInvalidState, st)
	}
	s.setState(StateStarting)

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.setState(StateStopped)
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.opts.Handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped unexpectedly", "error", err)
		}
	}()

	s.srv = srv
	s.addr = ln.Addr()
	s.done = done
	s.setState(StateRunning)

	s.logger.Info("Starting server", "addr", s.addr.String())
	return nil
}

// Stop shuts the server down. Calling it when not running is a no-op.
// The lock is not held while draining; the stopping state keeps Start and
// other Stop calls out.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.State() != StateRunning {
		s.mu.Unlock()
		return nil
	}
	s.setState(StateStopping)
	srv, done := s.srv, s.done
	s.mu.Unlock()

	s.logger.Info("Stopping server", "grace_period", s.opts.GracePeriod)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.GracePeriod)
	defer cancel()

	err := srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("grace period elapsed, closing remaining connections")
		err = srv.Close()
	}
	<-done

	s.mu.Lock()
	s.srv = nil
	s.addr = nil
	s.done = nil
	s.setState(StateStopped)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

// Run starts the server, blocks until ctx is done, then stops it.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}
