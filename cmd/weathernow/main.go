// Command weathernow runs the terminal widget locally. Pass "?theme=dark"
// (or "theme=dark") to switch to the dark variant.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"weather-now/internal/config"
	"weather-now/internal/logging"
	"weather-now/internal/theme"
	"weather-now/internal/tui"
	"weather-now/internal/weather"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadLookupFromEnv()
	if err != nil {
		return err
	}

	// stderr belongs to the program while it runs, so logs go to a file
	// only when asked for.
	logger := logging.Discard()
	if path := os.Getenv("WEATHER_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.New(f, cfg.LogLevel)
	}

	service := weather.NewService(weather.NewClient(cfg.GeocodingURL, cfg.ForecastURL, logger), logger)
	model := tui.NewModel(service, tui.Options{
		Mode:         theme.FromArgs(args),
		InitialQuery: cfg.DefaultCity,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
