package server

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"weather-now/internal/config"
	"weather-now/internal/router"
)

const (
	version         = "dev"
	shutdownTimeout = 5 * time.Second
)

// Runtime wires config + middleware + Wish server as a testable unit.
type Runtime struct {
	cfg           config.SSHConfig
	middlewareIDs []string
	server        *ssh.Server
	logger        *log.Logger
}

func New(cfg config.SSHConfig, chain []router.Descriptor, logger *log.Logger) (*Runtime, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sshServer, err := wish.NewServer(
		wish.WithAddress(cfg.Addr()),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(router.MiddlewareFromDescriptors(chain)...),
	)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chain))
	for _, descriptor := range chain {
		ids = append(ids, descriptor.Name)
	}

	return &Runtime{cfg: cfg, middlewareIDs: ids, server: sshServer, logger: logger}, nil
}

func (r *Runtime) MiddlewareIDs() []string {
	out := make([]string, len(r.middlewareIDs))
	copy(out, r.middlewareIDs)
	return out
}

func (r *Runtime) Address() string {
	return r.server.Addr
}

// Run listens on the configured address and serves until ctx is done.
func (r *Runtime) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.server.Addr)
	if err != nil {
		return err
	}
	return r.Serve(ctx, ln)
}

// Serve accepts sessions on ln until ctx is done, then drains open sessions
// for up to shutdownTimeout.
func (r *Runtime) Serve(ctx context.Context, ln net.Listener) error {
	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := r.server.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("ssh shutdown incomplete", "event", "shutdown", "surface", "ssh", "err", err)
			_ = r.server.Close()
		}
		_ = ln.Close()
	}()

	r.logger.Info("ssh listening",
		"event", "startup",
		"surface", "ssh",
		"version", version,
		"addr", ln.Addr().String(),
		"middleware", r.middlewareIDs,
		"host_key_path", r.cfg.HostKeyPath,
		"idle_timeout", r.cfg.IdleTimeout,
		"max_sessions", r.cfg.MaxSessions,
	)

	err := r.server.Serve(ln)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
