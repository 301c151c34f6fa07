// Package web serves the browser surface: the HTML card, a JSON lookup
// endpoint and a health probe.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"weather-now/internal/weather"
)

const (
	appName         = "weather-now"
	shutdownTimeout = 5 * time.Second
	accessLogFormat = "time=${time} level=info event=http_request status=${status} method=${method} path=${path} latency=${latency}\n"
)

// Lookup resolves a query to an outcome. *weather.Service satisfies it.
type Lookup interface {
	Lookup(ctx context.Context, query string) weather.Outcome
}

// Options configures the browser surface.
type Options struct {
	DefaultCity string
	Logger      *log.Logger

	// AccessLog receives one logfmt line per request. Nil disables it.
	AccessLog io.Writer
}

// New builds the fiber app with every route registered.
func New(lookup Lookup, opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(opts.Logger),
	})

	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format:     accessLogFormat,
			TimeFormat: time.RFC3339,
			Output:     opts.AccessLog,
		}))
	}

	h := &handler{lookup: lookup, defaultCity: opts.DefaultCity}

	app.Get("/health", h.health)
	app.Get("/", h.page)

	api := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
	}))
	api.Get("/weather", h.lookupWeather)

	return app
}

// Run binds addr and serves app until ctx is cancelled.
func Run(ctx context.Context, app *fiber.App, addr string, logger *log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, app, ln, logger)
}

// Serve serves app on ln until ctx is cancelled, then shuts it down. The
// listener is closed on the way out, so a cancellation that lands before
// fiber starts accepting still returns.
func Serve(ctx context.Context, app *fiber.App, ln net.Listener, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	errCh := make(chan error, 1)
	logger.Info("http listening", "event", "startup", "surface", "http", "addr", ln.Addr().String())
	go func() { errCh <- app.Listener(ln) }()

	select {
	case err := <-errCh:
		_ = ln.Close()
		return cleanServeErr(err)
	case <-ctx.Done():
	}

	shutdownErr := app.ShutdownWithTimeout(shutdownTimeout)
	_ = ln.Close()
	serveErr := cleanServeErr(<-errCh)
	if shutdownErr != nil {
		return shutdownErr
	}
	return serveErr
}

func cleanServeErr(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// errorHandler renders every error as the JSON envelope clients expect.
func errorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("request failed", "event", "http_error", "path", c.Path(), "err", err)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}
