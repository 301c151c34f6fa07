package router

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"

	"weather-now/internal/theme"
	"weather-now/internal/tui"
)

type contextKey string

const themeContextKey contextKey = "theme"

// Descriptor names one middleware in the session chain.
type Descriptor struct {
	Name       string
	Middleware wish.Middleware
}

// ChainOptions configures DefaultChain.
type ChainOptions struct {
	MaxSessions int
	Logger      *log.Logger
	Lookup      tui.Lookup
	DefaultCity string
}

// DefaultChain returns the session pipeline, outermost first: session
// limiting, access logging, theme selection, PTY enforcement and finally
// the bubbletea program.
func DefaultChain(opts ChainOptions) []Descriptor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return []Descriptor{
		{Name: "session-limit", Middleware: MaxSessionsMiddleware(opts.MaxSessions, logger)},
		{Name: "access-log", Middleware: accessLog(logger)},
		{Name: "theme", Middleware: themeSelection()},
		{Name: "active-term", Middleware: activeterm.Middleware()},
		{Name: "bubbletea", Middleware: bm.Middleware(ProgramHandler(opts.Lookup, opts.DefaultCity))},
	}
}

// MiddlewareFromDescriptors converts an outermost-first chain into the order
// wish.WithMiddleware expects, where the last entry runs first.
func MiddlewareFromDescriptors(chain []Descriptor) []wish.Middleware {
	out := make([]wish.Middleware, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Middleware)
	}
	return out
}

func accessLog(logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			started := time.Now()
			sessionLogger := logger.With(
				"session_id", s.Context().SessionID(),
				"user", s.User(),
				"remote_addr", s.RemoteAddr().String(),
			)
			sessionLogger.Info("session started", "event", "session_start", "command", s.RawCommand())
			defer func() {
				sessionLogger.Info("session ended", "event", "session_end", "duration", time.Since(started).Round(time.Millisecond))
			}()
			next(s)
		}
	}
}

// themeSelection resolves the mode once from the session command, e.g.
// `ssh -t host '?theme=dark'`, and stores it on the session context.
func themeSelection() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			s.Context().SetValue(themeContextKey, theme.FromArgs(s.Command()))
			next(s)
		}
	}
}

// ThemeFromContext returns the mode stored by the theme middleware, or Light.
func ThemeFromContext(ctx ssh.Context) theme.Mode {
	if mode, ok := ctx.Value(themeContextKey).(theme.Mode); ok {
		return mode
	}
	return theme.Light
}
