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

	"github.com/vovakirdan/tileview/internal/config"
	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/registry"
	"github.com/vovakirdan/tileview/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tileview/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// DefaultGame is played when the client sends no command.
	DefaultGame string

	// App is the configuration every session's pipeline is built from.
	App config.Config
}

// SSHServerConfigFrom derives the server settings from the app config.
func SSHServerConfigFrom(cfg config.Config) SSHServerConfig {
	return SSHServerConfig{
		Address:     cfg.SSH.Address,
		HostKeyPath: cfg.SSH.HostKey,
		IdleTimeout: time.Duration(cfg.SSH.IdleTimeoutMinutes) * time.Minute,
		DefaultGame: "2048",
		App:         cfg,
	}
}

// SSHServer wraps a Wish SSH server that plays boards over SSH.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger

	// pipes maps a session ID to the pipeline its program draws through.
	pipes sync.Map
}

// NewSSHServer creates a new SSH server. The store may be nil.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tileview-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.releaseMiddleware,
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// gameFor picks the source from the session command, e.g. `ssh host 2048_endless`.
func (s *SSHServer) gameFor(sshSession ssh.Session) (registry.Game, error) {
	id := s.config.DefaultGame
	if cmd := sshSession.Command(); len(cmd) > 0 {
		id = cmd[0]
	}
	return registry.Create(id)
}

// teaHandler creates a Bubble Tea program for each SSH session. Each session
// owns its own game, canvas and view.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	_, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "tileview needs a PTY, try ssh -t")
		return nil, nil
	}

	game, err := s.gameFor(sshSession)
	if err != nil {
		wish.Fatalln(sshSession, err.Error())
		return nil, nil
	}

	pipe, err := pipeline.New(s.config.App, s.logger.With("user", sshSession.User()))
	if err != nil {
		s.logger.Error("cannot build view", "user", sshSession.User(), "error", err)
		wish.Fatalln(sshSession, "cannot build view")
		return nil, nil
	}
	s.track(sshSession.Context().SessionID(), pipe)

	model := NewPlayModel(game, pipe, PlayOptions{
		Runtime: core.RuntimeConfig{
			TickRate: s.config.App.Terminal.FPS,
			Seed:     time.Now().UnixNano(),
		},
		Store:  s.store,
		Record: s.config.App.Storage.Record,
		Origin: "ssh:" + sshSession.User(),
		Logger: s.logger.With("user", sshSession.User()),
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// releaseMiddleware wraps the Bubble Tea middleware and closes the session's
// pipeline once its program has returned.
func (s *SSHServer) releaseMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		next(sshSession)
		s.release(sshSession.Context().SessionID())
	}
}

func (s *SSHServer) track(id string, pipe *pipeline.Pipeline) {
	s.pipes.Store(id, pipe)
}

func (s *SSHServer) release(id string) {
	v, ok := s.pipes.LoadAndDelete(id)
	if !ok {
		return
	}
	if err := v.(*pipeline.Pipeline).Close(); err != nil {
		s.logger.Warn("cannot close view", "session", id, "error", err)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"command", sshSession.Command(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
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
