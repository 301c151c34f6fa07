package weather

import (
	"errors"
	"fmt"
)

// User-facing outcome messages. The technical cause of a failure is only
// ever logged, never placed in these.
const (
	MessageNotFound    = "City not found"
	MessageFetchFailed = "Failed to fetch weather"
)

// Coordinates is a resolved geocoding result in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Reading is a snapshot of current conditions as reported by the forecast
// provider. Values are passed through without conversion or rounding.
type Reading struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
}

// Kind classifies a lookup outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindNotFound
	KindFetchFailed
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNotFound:
		return "not_found"
	case KindFetchFailed:
		return "fetch_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the tagged result of a lookup: a Reading on success, or a
// Message on failure, never both.
type Outcome struct {
	Kind    Kind
	Reading Reading
	Message string
}

// Succeeded wraps a reading.
func Succeeded(r Reading) Outcome {
	return Outcome{Kind: KindSuccess, Reading: r}
}

// NotFound is the outcome for a query the geocoder cannot resolve.
func NotFound() Outcome {
	return Outcome{Kind: KindNotFound, Message: MessageNotFound}
}

// FetchFailed is the outcome for any transport or decoding failure.
func FetchFailed() Outcome {
	return Outcome{Kind: KindFetchFailed, Message: MessageFetchFailed}
}

// OK reports whether the outcome carries a reading.
func (o Outcome) OK() bool { return o.Kind == KindSuccess }

var (
	ErrNotFound          = errors.New("location not found")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrUpstreamStatus    = errors.New("unexpected upstream status")
)

// LookupError pairs a classified failure with its technical cause.
type LookupError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *LookupError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *LookupError) Unwrap() error { return e.Cause }

// Outcome converts the error into the outcome shown to users.
func (e *LookupError) Outcome() Outcome {
	if e.Kind == KindNotFound {
		return NotFound()
	}
	return FetchFailed()
}

// classify maps any error from the upstream sequence onto a LookupError.
func classify(err error) *LookupError {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr
	}
	if errors.Is(err, ErrNotFound) {
		return &LookupError{Kind: KindNotFound, Message: MessageNotFound, Cause: err}
	}
	return &LookupError{Kind: KindFetchFailed, Message: MessageFetchFailed, Cause: err}
}
