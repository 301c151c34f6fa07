package router

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"weather-now/internal/theme"
	"weather-now/internal/weather"
)

type staticLookup struct{ out weather.Outcome }

func (s staticLookup) Lookup(context.Context, string) weather.Outcome { return s.out }

// compose mirrors how wish builds the handler from WithMiddleware.
func compose(mw []wish.Middleware, h ssh.Handler) ssh.Handler {
	for _, m := range mw {
		h = m(h)
	}
	return h
}

func TestDefaultChainOrder(t *testing.T) {
	chain := DefaultChain(ChainOptions{MaxSessions: 4, Lookup: staticLookup{}, DefaultCity: "Chennai"})
	want := []string{"session-limit", "access-log", "theme", "active-term", "bubbletea"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i := range want {
		if chain[i].Name != want[i] {
			t.Fatalf("chain[%d] = %q, want %q", i, chain[i].Name, want[i])
		}
		if chain[i].Middleware == nil {
			t.Fatalf("chain[%d] has no middleware", i)
		}
	}
}

func TestMiddlewareFromDescriptorsKeepsFirstOutermost(t *testing.T) {
	var order []string
	record := func(name string) Descriptor {
		return Descriptor{Name: name, Middleware: func(next ssh.Handler) ssh.Handler {
			return func(s ssh.Session) {
				order = append(order, name)
				next(s)
			}
		}}
	}

	chain := []Descriptor{record("outer"), record("middle"), record("inner")}
	h := compose(MiddlewareFromDescriptors(chain), func(ssh.Session) { order = append(order, "handler") })
	h(newFakeSession(context.Background(), "203.0.113.1"))

	want := []string{"outer", "middle", "inner", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("execution order = %v, want %v", order, want)
	}
}

func TestThemeSelectionTable(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		want    theme.Mode
	}{
		{name: "no command", want: theme.Light},
		{name: "dark query", command: []string{"?theme=dark"}, want: theme.Dark},
		{name: "bare pair", command: []string{"theme=dark"}, want: theme.Dark},
		{name: "explicit light", command: []string{"theme=light"}, want: theme.Light},
		{name: "bogus", command: []string{"theme=neon"}, want: theme.Light},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newFakeSession(context.Background(), "203.0.113.2").withCommand(tt.command...)
			var got theme.Mode
			themeSelection()(func(sess ssh.Session) {
				got = ThemeFromContext(sess.Context())
			})(s)

			if got != tt.want {
				t.Fatalf("theme = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThemeFromContextDefaultsToLight(t *testing.T) {
	s := newFakeSession(context.Background(), "203.0.113.3")
	if got := ThemeFromContext(s.Context()); got != theme.Light {
		t.Fatalf("ThemeFromContext() = %q, want light", got)
	}
}

func TestAccessLogWrapsSession(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Formatter: log.LogfmtFormatter})

	called := false
	s := newFakeSession(context.Background(), "203.0.113.4").withCommand("?theme=dark")
	accessLog(logger)(func(ssh.Session) { called = true })(s)

	if !called {
		t.Fatal("expected next handler to be called")
	}
	out := buf.String()
	for _, want := range []string{
		"event=session_start",
		"event=session_end",
		"session_id=test-session",
		"user=guest",
		"remote_addr=203.0.113.4:22",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log missing %q:\n%s", want, out)
		}
	}
}

func TestActiveTermRejectsSessionsWithoutPty(t *testing.T) {
	chain := DefaultChain(ChainOptions{MaxSessions: 1, Lookup: staticLookup{}, DefaultCity: "Chennai"})

	// Drop the bubbletea program so only the guard decides.
	guarded := chain[:len(chain)-1]
	reached := false
	h := compose(MiddlewareFromDescriptors(guarded), func(ssh.Session) { reached = true })

	s := newFakeSession(context.Background(), "203.0.113.5")
	h(s)

	if reached {
		t.Fatal("session without a PTY should not reach the program")
	}
	if !s.exited || s.exitCode != 1 {
		t.Fatalf("expected exit code 1, got exited=%v code=%d", s.exited, s.exitCode)
	}

	withPty := newFakeSession(context.Background(), "203.0.113.6").withPty(80, 24)
	h(withPty)
	if !reached {
		t.Fatal("session with a PTY should reach the program")
	}
}
