package router

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

const maxSessionsMessage = "max sessions exceeded\n"

// MaxSessionsMiddleware admits at most limit concurrent sessions. A slot is
// released exactly once, when the session context ends or the handler
// returns, whichever comes first. Handler panics are contained.
func MaxSessionsMiddleware(limit int, logger *log.Logger) wish.Middleware {
	if limit < 1 {
		limit = 1
	}
	slots := make(chan struct{}, limit)

	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			select {
			case slots <- struct{}{}:
			default:
				logger.Warn("session rejected", "event", "session_rejected",
					"reason", "max_sessions", "limit", limit,
					"remote_addr", s.RemoteAddr().String())
				_, _ = s.Write([]byte(maxSessionsMessage))
				_ = s.Exit(1)
				return
			}

			var once sync.Once
			release := func() { once.Do(func() { <-slots }) }

			done := make(chan struct{})
			go func() {
				select {
				case <-s.Context().Done():
				case <-done:
				}
				release()
			}()

			defer func() {
				close(done)
				release()
				if r := recover(); r != nil {
					logger.Error("session handler panicked", "event", "session_panic", "err", r)
				}
			}()

			next(s)
		}
	}
}
