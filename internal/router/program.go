package router

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	bm "github.com/charmbracelet/wish/bubbletea"

	"weather-now/internal/tui"
)

// ProgramHandler builds the per-session bubbletea model. The renderer is
// derived from the session so colours match the client terminal.
func ProgramHandler(lookup tui.Lookup, defaultCity string) bm.Handler {
	return programHandler(lookup, defaultCity, bm.MakeRenderer)
}

func programHandler(lookup tui.Lookup, defaultCity string, makeRenderer func(ssh.Session) *lipgloss.Renderer) bm.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()

		model := tui.NewModel(lookup, tui.Options{
			Mode:         ThemeFromContext(s.Context()),
			Renderer:     makeRenderer(s),
			InitialQuery: defaultCity,
			Width:        pty.Window.Width,
			Height:       pty.Window.Height,
			Context:      s.Context(),
		})
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
