package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"weather-now/internal/shell"
	"weather-now/internal/theme"
	"weather-now/internal/weather"
)

const (
	cursorGlyph = "█"
	keyHelp     = "enter search • ctrl+u clear • esc quit"
	hintPrefix  = "Theme controlled via URL → "
)

// Lookup resolves a query to an outcome. *weather.Service satisfies it.
type Lookup interface {
	Lookup(ctx context.Context, query string) weather.Outcome
}

// resultMsg carries a finished lookup back into Update.
type resultMsg struct {
	ticket  shell.Ticket
	outcome weather.Outcome
}

// Options configures a Model.
type Options struct {
	Mode         theme.Mode
	Renderer     *lipgloss.Renderer
	InitialQuery string
	Width        int
	Height       int

	// Context bounds every lookup the model starts, e.g. the SSH session
	// context. Defaults to context.Background.
	Context context.Context
}

// Model is the terminal surface of the widget.
type Model struct {
	state  shell.State
	lookup Lookup
	mode   theme.Mode
	styles theme.Styles

	width  int
	height int

	base   context.Context
	cancel context.CancelFunc
}

// NewModel constructs the interactive model. It starts idle with the query
// pre-filled and performs no lookup until the user searches.
func NewModel(lookup Lookup, opts Options) Model {
	base := opts.Context
	if base == nil {
		base = context.Background()
	}
	return Model{
		state:  shell.New(opts.InitialQuery),
		lookup: lookup,
		mode:   opts.Mode,
		styles: theme.NewStyles(opts.Mode, opts.Renderer),
		width:  opts.Width,
		height: opts.Height,
		base:   base,
	}
}

// State exposes the presentation state.
func (m Model) State() shell.State { return m.state }

func (m Model) Init() tea.Cmd { return nil }

// Update advances model state in response to events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case resultMsg:
		current := m.state.Current(msg.ticket)
		m.state = m.state.Resolve(msg.ticket, msg.outcome)
		if current && m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, tea.Quit
	case tea.KeyEnter:
		return m.search()
	case tea.KeyBackspace:
		if runes := []rune(m.state.Query); len(runes) > 0 {
			m.state = m.state.Edit(string(runes[:len(runes)-1]))
		}
	case tea.KeyCtrlU:
		m.state = m.state.Edit("")
	case tea.KeySpace:
		m.state = m.state.Edit(m.state.Query + " ")
	case tea.KeyRunes:
		m.state = m.state.Edit(m.state.Query + string(msg.Runes))
	}
	return m, nil
}

// search issues a new ticket and cancels whatever lookup was still running.
func (m Model) search() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.base)
	m.cancel = cancel

	var ticket shell.Ticket
	m.state, ticket = m.state.Search()

	lookup := m.lookup
	return m, func() tea.Msg {
		return resultMsg{ticket: ticket, outcome: lookup.Lookup(ctx, ticket.Query)}
	}
}

// View renders the card: title, input, button, outcome region and hint.
func (m Model) View() string {
	s := m.styles

	query := m.state.Query
	if query == "" {
		query = s.Hint.UnsetMarginTop().Render(shell.Placeholder)
	}

	parts := []string{
		s.Title.Render(shell.Title),
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.Input.Render(query+cursorGlyph),
			" ",
			s.Button.Render(shell.ButtonLabel),
		),
	}

	switch m.state.Phase() {
	case shell.PhaseFailed:
		parts = append(parts, s.Error.Render(m.state.Message))
	case shell.PhaseDisplaying:
		lines := shell.Lines(*m.state.Reading)
		rendered := make([]string, 0, len(lines))
		for _, line := range lines {
			rendered = append(rendered, line.String())
		}
		parts = append(parts, s.Result.Render(strings.Join(rendered, "\n")))
	}

	parts = append(parts,
		s.Hint.Render(hintPrefix+"?theme=dark or ?theme=light"),
		s.Hint.UnsetMarginTop().Render(keyHelp),
	)

	card := s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
