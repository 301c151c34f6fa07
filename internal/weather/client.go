package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"

	userAgent = "weather-now/1.0"
)

// Client talks to the geocoding and forecast endpoints. Query values are
// always percent-encoded by resty; no request is retried.
type Client struct {
	http         *resty.Client
	geocodingURL string
	forecastURL  string
}

// NewClient builds a client for the given endpoint URLs. A nil logger
// disables request logging.
func NewClient(geocodingURL, forecastURL string, logger *log.Logger) *Client {
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}

	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	if logger != nil {
		httpClient.SetLogger(logger)
		httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			logger.Debug("upstream response",
				"event", "upstream_response",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"duration", resp.Time(),
				"bytes", len(resp.Body()),
			)
			return nil
		})
	}

	return &Client{http: httpClient, geocodingURL: geocodingURL, forecastURL: forecastURL}
}

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type forecastResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
}

type currentWeather struct {
	Temperature *float64 `json:"temperature"`
	WindSpeed   *float64 `json:"windspeed"`
	WeatherCode *int     `json:"weathercode"`
}

// Geocode resolves a place name to the first location the provider
// returns. An empty result set yields ErrNotFound.
func (c *Client) Geocode(ctx context.Context, name string) (Coordinates, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		Get(c.geocodingURL)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding request: %w", err)
	}

	var body geocodingResponse
	if err := decode(resp, &body); err != nil {
		return Coordinates{}, fmt.Errorf("geocoding: %w", err)
	}
	if len(body.Results) == 0 {
		return Coordinates{}, ErrNotFound
	}

	first := body.Results[0]
	if first.Latitude == nil || first.Longitude == nil {
		return Coordinates{}, fmt.Errorf("geocoding: %w: first result has no coordinates", ErrMalformedResponse)
	}

	return Coordinates{Latitude: *first.Latitude, Longitude: *first.Longitude}, nil
}

// Current fetches current conditions for a coordinate pair.
func (c *Client) Current(ctx context.Context, at Coordinates) (Reading, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":        formatCoord(at.Latitude),
			"longitude":       formatCoord(at.Longitude),
			"current_weather": "true",
		}).
		Get(c.forecastURL)
	if err != nil {
		return Reading{}, fmt.Errorf("forecast request: %w", err)
	}

	var body forecastResponse
	if err := decode(resp, &body); err != nil {
		return Reading{}, fmt.Errorf("forecast: %w", err)
	}

	cw := body.CurrentWeather
	switch {
	case cw == nil:
		return Reading{}, fmt.Errorf("forecast: %w: missing current_weather", ErrMalformedResponse)
	case cw.Temperature == nil, cw.WindSpeed == nil, cw.WeatherCode == nil:
		return Reading{}, fmt.Errorf("forecast: %w: incomplete current_weather", ErrMalformedResponse)
	}

	return Reading{
		Temperature: *cw.Temperature,
		WindSpeed:   *cw.WindSpeed,
		WeatherCode: *cw.WeatherCode,
	}, nil
}

// formatCoord renders a coordinate with the shortest exact representation.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func decode(resp *resty.Response, target any) error {
	if resp.IsError() {
		return fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
