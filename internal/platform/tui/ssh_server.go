package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.flappy/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	TickRate int
	Seed     int64
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// ServerDeps are shared by every session. Each SSH user gets their own
// preference profile; scores and metrics are process-wide.
type ServerDeps struct {
	Flappy  config.FlappyConfig
	Ads     config.AdsConfig
	Scores  *storage.Store // may be nil
	Prefs   *prefs.Opener
	Metrics *ads.Metrics
	Logger  *log.Logger
}

// SSHServer serves one game per SSH session through Wish.
type SSHServer struct {
	config SSHServerConfig
	deps   ServerDeps
	server *ssh.Server
	logger *log.Logger

	stacks sync.Map // session id -> *Stack
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, deps ServerDeps) (*SSHServer, error) {
	srv := &SSHServer{
		config: cfg,
		deps:   deps,
		logger: deps.Logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".flappy", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds a stack for the session's user.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	rc := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     s.config.Seed,
	}

	opts := StackOptions{
		Flappy:  s.deps.Flappy,
		Ads:     s.deps.Ads,
		Prefs:   s.deps.Prefs.For(sess.User()),
		Profile: sess.User(),
		Metrics: s.deps.Metrics,
		Logger:  s.logger,
	}
	if s.deps.Scores != nil {
		opts.Scores = s.deps.Scores
	}

	stack, err := NewStack(opts, rc)
	if err != nil {
		s.logger.Error("cannot start session", "user", sess.User(), "error", err)
		return nil, nil
	}
	s.stacks.Store(sess.Context().SessionID(), stack)

	return NewModel(stack, s.deps.Ads.AdFree.DurationSeconds), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionMiddleware logs session events and tears the session's stack down
// once the program has exited.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)

		if v, ok := s.stacks.LoadAndDelete(sess.Context().SessionID()); ok {
			v.(*Stack).Close()
		}
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
