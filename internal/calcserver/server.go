// SPDX-License-Identifier: MPL-2.0

package calcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unitfold/unitfold/pkg/interpreter"
	"github.com/unitfold/unitfold/pkg/units"

	"github.com/charmbracelet/keygen"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
)

const (
	defaultHost            = "127.0.0.1"
	defaultMaxLineLength   = 1024
	defaultStartupTimeout  = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultIdleTimeout     = 15 * time.Minute
)

// ErrInvalidServerConfig is the sentinel error wrapped by InvalidServerConfigError.
var ErrInvalidServerConfig = errors.New("invalid calculator server config")

type (
	// Config holds immutable settings for the calculator server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host string
		// Port is the port to listen on (0 = auto-select).
		Port int
		// MaxLineLength caps a single statement in bytes (default: 1024).
		MaxLineLength int
		// Formatter renders results for every session.
		Formatter interpreter.Formatter
		// HostKeyPath persists the server key; empty uses an ephemeral key.
		HostKeyPath string
		// IdleTimeout closes sessions without traffic (default: 15m).
		IdleTimeout time.Duration
		// StartupTimeout bounds Start (default: 5s).
		StartupTimeout time.Duration
		// ShutdownTimeout bounds the graceful part of Stop (default: 10s).
		ShutdownTimeout time.Duration
	}

	// InvalidServerConfigError is returned by New for a Config it cannot serve.
	InvalidServerConfigError struct {
		FieldErrors []error
	}

	// Option configures a Server.
	Option func(*Server)

	// Server is the SSH calculator.
	// A Server instance is single-use: once stopped or failed, create a new instance.
	Server struct {
		*lifecycle

		cfg     Config
		catalog units.Catalog
		logger  *log.Logger

		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string

		active    atomic.Int64
		evaluated atomic.Int64
	}
)

// Error implements the error interface.
func (e *InvalidServerConfigError) Error() string {
	return "invalid calculator server config: " + errors.Join(e.FieldErrors...).Error()
}

// Unwrap returns ErrInvalidServerConfig for errors.Is() compatibility.
func (e *InvalidServerConfigError) Unwrap() error { return ErrInvalidServerConfig }

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            defaultHost,
		Port:            0,
		MaxLineLength:   defaultMaxLineLength,
		Formatter:       interpreter.DefaultFormatter(),
		IdleTimeout:     defaultIdleTimeout,
		StartupTimeout:  defaultStartupTimeout,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Validate checks the fields New cannot default.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range [0, 65535]", c.Port))
	}
	if c.MaxLineLength < 0 {
		errs = append(errs, fmt.Errorf("max line length %d is negative", c.MaxLineLength))
	}
	if c.Formatter.Precision < 0 {
		errs = append(errs, fmt.Errorf("precision %d is negative", c.Formatter.Precision))
	}
	if len(errs) > 0 {
		return &InvalidServerConfigError{FieldErrors: errs}
	}
	return nil
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a calculator server over cat. The catalog is shared by all
// sessions and must not be mutated while the server runs.
// The server is not started; call Start() to begin accepting connections.
func New(cat units.Catalog, cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.MaxLineLength == 0 {
		cfg.MaxLineLength = defaultMaxLineLength
	}
	if cfg.Formatter == (interpreter.Formatter{}) {
		cfg.Formatter = interpreter.DefaultFormatter()
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaultStartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		lifecycle: newLifecycle(),
		cfg:       cfg,
		catalog:   cat,
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "calc-server"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start binds the listener and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if err := s.begin(ctx); err != nil {
		return err
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.fail(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.err()
	}

	hostKey, err := s.hostKeyOption()
	if err != nil {
		_ = listener.Close() // Best-effort cleanup on error
		s.fail(fmt.Errorf("failed to prepare host key: %w", err))
		return s.err()
	}

	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithIdleTimeout(s.cfg.IdleTimeout),
		hostKey,
		// The first middleware is innermost; logging wraps every session.
		wish.WithMiddleware(
			s.sessionMiddleware(),
			logging.StructuredMiddlewareWithLogger(s.logger, log.DebugLevel),
		),
	)
	if err != nil {
		_ = listener.Close() // Best-effort cleanup on error
		s.fail(fmt.Errorf("failed to create SSH server: %w", err))
		return s.err()
	}

	s.srvMu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	s.wg.Go(s.serve)

	select {
	case <-s.startedCh:
		s.logger.Info("calculator listening", "address", s.addr)
		return nil
	case err := <-s.errCh:
		s.fail(err)
		return err
	case <-startupCtx.Done():
		s.fail(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.err()
	}
}

// hostKeyOption loads or creates the key at HostKeyPath. Without a path the
// key lives in memory only, so clients see a new host key on every start.
func (s *Server) hostKeyOption() (ssh.Option, error) {
	if s.cfg.HostKeyPath != "" {
		return wish.WithHostKeyPath(s.cfg.HostKeyPath), nil
	}
	kp, err := keygen.New("", keygen.WithKeyType(keygen.Ed25519))
	if err != nil {
		return nil, err
	}
	return wish.WithHostKeyPEM(kp.RawPrivateKey()), nil
}

// serve blocks in ssh.Server.Serve until the listener closes.
func (s *Server) serve() {
	s.srvMu.Lock()
	srv, listener := s.srv, s.listener
	s.srvMu.Unlock()

	s.running()

	if err := srv.Serve(listener); err != nil {
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		s.report(fmt.Errorf("serve error: %w", err))
	}
}

// Stop gracefully stops the server, force-closing sessions that outlive
// ShutdownTimeout. Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	if !s.stopping() {
		s.wg.Wait()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		if err := s.srv.Shutdown(shutdownCtx); err != nil && !isClosedConnError(err) {
			if errors.Is(err, context.DeadlineExceeded) {
				s.logger.Warn("sessions still open at shutdown timeout, closing", "active", s.active.Load())
				err = s.srv.Close()
			}
			if err != nil && !isClosedConnError(err) && !errors.Is(err, ssh.ErrServerClosed) {
				s.logger.Error("shutdown error", "error", err)
				shutdownErr = err
			}
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() // Best-effort cleanup during shutdown
	}
	s.srvMu.Unlock()

	s.wg.Wait()
	s.stopped()
	s.logger.Info("calculator stopped", "evaluated", s.evaluated.Load())

	return shutdownErr
}

// Wait blocks until the serve loop exits. It returns the failure cause when
// the server ended in StateFailed.
func (s *Server) Wait() error {
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.LastError()
	}
	return nil
}

// State returns the current server state.
func (s *Server) State() State {
	return s.current()
}

// IsRunning returns whether the server is accepting sessions.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// LastError returns the error that caused the Failed state, or nil.
func (s *Server) LastError() error {
	return s.err()
}

// Err returns a channel for receiving async serve errors.
// It is closed once the server has stopped.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Address returns the bound address (host:port), or "" before Start succeeds.
func (s *Server) Address() string {
	select {
	case <-s.startedCh:
		s.srvMu.Lock()
		defer s.srvMu.Unlock()
		return s.addr
	default:
		return ""
	}
}

// Port returns the bound port, or 0 before Start succeeds.
func (s *Server) Port() int {
	_, portStr, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// ActiveSessions returns the number of sessions currently open.
func (s *Server) ActiveSessions() int64 {
	return s.active.Load()
}

// Evaluated returns the number of statements evaluated since Start.
func (s *Server) Evaluated() int64 {
	return s.evaluated.Load()
}

// isClosedConnError checks if the error is a "use of closed network connection" error.
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed) || opErr.Err.Error() == "use of closed network connection"
	}
	return false
}
