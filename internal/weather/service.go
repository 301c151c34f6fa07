package weather

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Upstream is the pair of provider calls a lookup is built from.
type Upstream interface {
	Geocode(ctx context.Context, name string) (Coordinates, error)
	Current(ctx context.Context, at Coordinates) (Reading, error)
}

// Service performs geocode-then-forecast lookups. It holds no state between
// calls and is safe for concurrent use.
type Service struct {
	upstream Upstream
	logger   *log.Logger
	newID    func() string
}

func NewService(upstream Upstream, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{upstream: upstream, logger: logger, newID: uuid.NewString}
}

// Lookup resolves query to current conditions. Every failure is folded
// into a classified Outcome; no error escapes.
func (s *Service) Lookup(ctx context.Context, query string) (out Outcome) {
	id := s.newID()
	logger := s.logger.With("lookup_id", id, "query", query)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("lookup panicked", "event", "lookup_failed", "err", fmt.Sprint(r))
			out = FetchFailed()
		}
	}()

	if strings.TrimSpace(query) == "" {
		logger.Debug("empty query", "event", "lookup_not_found")
		return NotFound()
	}

	reading, err := s.fetch(ctx, query)
	if err != nil {
		lookupErr := classify(err)
		if lookupErr.Kind == KindNotFound {
			logger.Info("no location matched", "event", "lookup_not_found")
		} else {
			logger.Error("lookup failed", "event", "lookup_failed", "err", lookupErr.Cause)
		}
		return lookupErr.Outcome()
	}

	logger.Debug("lookup succeeded", "event", "lookup_ok",
		"temperature", reading.Temperature,
		"windspeed", reading.WindSpeed,
		"weathercode", reading.WeatherCode,
	)
	return Succeeded(reading)
}

func (s *Service) fetch(ctx context.Context, query string) (Reading, error) {
	at, err := s.upstream.Geocode(ctx, query)
	if err != nil {
		return Reading{}, err
	}
	return s.upstream.Current(ctx, at)
}
