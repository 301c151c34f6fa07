package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"weather-now/internal/weather"
)

const (
	defaultHost               = "0.0.0.0"
	defaultSSHPort            = 2222
	defaultHTTPPort           = 8080
	defaultHostKeyPath        = ".data/host_ed25519"
	defaultIdleTimeout        = 120 * time.Second
	defaultMaxSessions        = 32
	defaultCity               = "Chennai"
	defaultLogLevel           = log.InfoLevel
	maximumConfiguredSessions = 1024
)

// SSHConfig configures the terminal surface.
type SSHConfig struct {
	Enabled     bool
	Host        string
	Port        int
	HostKeyPath string
	IdleTimeout time.Duration
	MaxSessions int
}

// Addr is the listen address.
func (c SSHConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// HTTPConfig configures the browser surface.
type HTTPConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// Addr is the listen address.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LookupConfig holds the settings every entrypoint needs to resolve a
// city: upstream endpoints, the default query and the log level.
type LookupConfig struct {
	GeocodingURL string
	ForecastURL  string
	DefaultCity  string
	LogLevel     log.Level
}

// Config captures startup settings for the server entrypoint.
type Config struct {
	LookupConfig
	SSH  SSHConfig
	HTTP HTTPConfig
}

// LoadDotEnv seeds the environment from the given files. Variables already
// set win, and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadFromEnv loads runtime configuration from environment variables. Every
// invalid variable is reported, not just the first.
func LoadFromEnv() (Config, error) {
	var (
		cfg  Config
		errs []error
		err  error
	)
	collect := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	cfg.SSH.Enabled, err = readBool("WEATHER_SSH_ENABLED", true)
	collect(err)
	cfg.SSH.Host, err = readRequiredOrDefault("WEATHER_SSH_HOST", defaultHost)
	collect(err)
	cfg.SSH.Port, err = readInt("WEATHER_SSH_PORT", defaultSSHPort, 1, 65535)
	collect(err)

	hostKeyPath, err := readRequiredOrDefault("WEATHER_SSH_HOST_KEY_PATH", defaultHostKeyPath)
	collect(err)
	if err == nil {
		cfg.SSH.HostKeyPath = filepath.Clean(hostKeyPath)
		if cfg.SSH.HostKeyPath == "." {
			collect(fmt.Errorf("WEATHER_SSH_HOST_KEY_PATH must not resolve to current directory"))
		}
	}

	cfg.SSH.IdleTimeout, err = readDuration("WEATHER_SSH_IDLE_TIMEOUT", defaultIdleTimeout)
	collect(err)
	cfg.SSH.MaxSessions, err = readInt("WEATHER_SSH_MAX_SESSIONS", defaultMaxSessions, 1, maximumConfiguredSessions)
	collect(err)

	cfg.HTTP.Enabled, err = readBool("WEATHER_HTTP_ENABLED", true)
	collect(err)
	cfg.HTTP.Host, err = readRequiredOrDefault("WEATHER_HTTP_HOST", defaultHost)
	collect(err)
	cfg.HTTP.Port, err = readInt("WEATHER_HTTP_PORT", defaultHTTPPort, 1, 65535)
	collect(err)

	cfg.LookupConfig = loadLookup(collect)

	if len(errs) == 0 && !cfg.SSH.Enabled && !cfg.HTTP.Enabled {
		collect(fmt.Errorf("at least one of WEATHER_SSH_ENABLED and WEATHER_HTTP_ENABLED must be true"))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// LoadLookupFromEnv loads only the lookup settings. Local entrypoints that
// never listen use it so surface variables cannot block them.
func LoadLookupFromEnv() (LookupConfig, error) {
	var errs []error
	cfg := loadLookup(func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return LookupConfig{}, errors.Join(errs...)
	}
	return cfg, nil
}

func loadLookup(collect func(error)) LookupConfig {
	var (
		cfg LookupConfig
		err error
	)

	cfg.GeocodingURL, err = readURL("WEATHER_GEOCODING_URL", weather.DefaultGeocodingURL)
	collect(err)
	cfg.ForecastURL, err = readURL("WEATHER_FORECAST_URL", weather.DefaultForecastURL)
	collect(err)
	cfg.DefaultCity, err = readRequiredOrDefault("WEATHER_DEFAULT_CITY", defaultCity)
	collect(err)
	cfg.LogLevel, err = readLevel("WEATHER_LOG_LEVEL", defaultLogLevel)
	collect(err)

	return cfg
}

func readRequiredOrDefault(key, fallback string) (string, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}

	return raw, nil
}

func readInt(key string, fallback, min, max int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}

	return parsed, nil
}

func readBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}

	return parsed, nil
}

func readDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func readURL(key, fallback string) (string, error) {
	raw, err := readRequiredOrDefault(key, fallback)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s must be a valid URL: %w", key, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%s must be an absolute http(s) URL", key)
	}

	return raw, nil
}

func readLevel(key string, fallback log.Level) (log.Level, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	switch level := strings.ToLower(strings.TrimSpace(raw)); level {
	case "debug", "info", "warn", "error":
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fallback, fmt.Errorf("%s: %w", key, err)
		}
		return parsed, nil
	default:
		return fallback, fmt.Errorf("%s must be one of debug, info, warn, error", key)
	}
}
