package theme

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is the query parameter that selects the mode.
const Param = "theme"

// Mode is the visual variant applied to a surface.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

var modes = [...]Mode{Light, Dark}

// Dark reports whether the dark variant applies. This is the single
// presentation flag surfaces branch on.
func (m Mode) Dark() bool { return m == Dark }

func (m Mode) String() string { return string(m) }

// Parse maps a raw theme value to a Mode. Only the exact value "dark"
// selects Dark; case and surrounding space are significant.
func Parse(v string) Mode {
	if v == string(Dark) {
		return Dark
	}
	return Light
}

// FromQuery resolves the mode from a query string. raw may be a bare
// query ("theme=dark"), a query with its leading "?" or a full URL.
func FromQuery(raw string) Mode {
	v, _ := themeParam(raw)
	return Parse(v)
}

// FromArgs resolves the mode from launch arguments, e.g. the command of an
// SSH session ("ssh host -t '?theme=dark'"). The last argument carrying
// the parameter wins.
func FromArgs(args []string) Mode {
	mode := Light
	for _, arg := range args {
		if v, ok := themeParam(arg); ok {
			mode = Parse(v)
		}
	}
	return mode
}

func themeParam(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}

	// ParseQuery keeps every pair it could decode even when it reports an
	// error, so a bad neighbour does not hide the theme.
	values, _ := url.ParseQuery(raw)
	if _, ok := values[Param]; !ok {
		return "", false
	}
	return values.Get(Param), true
}

// Palette holds the semantic colour slots for one mode.
type Palette struct {
	Foreground string
	Background string
	Surface    string
	Primary    string
	Danger     string
	Muted      string
	Border     string
	Result     string
}

var palettes = map[Mode]Palette{
	Light: {
		Foreground: "#111827",
		Background: "#F3F4F6",
		Surface:    "#FFFFFF",
		Primary:    "#2563EB",
		Danger:     "#EF4444",
		Muted:      "#6B7280",
		Border:     "#D1D5DB",
		Result:     "#111827",
	},
	Dark: {
		Foreground: "#FFFFFF",
		Background: "#111827",
		Surface:    "#1F2937",
		Primary:    "#2563EB",
		Danger:     "#EF4444",
		Muted:      "#9CA3AF",
		Border:     "#374151",
		Result:     "#D1D5DB",
	},
}

// PaletteFor returns a copy of the palette for mode.
func PaletteFor(mode Mode) Palette {
	p, ok := palettes[mode]
	if !ok {
		return palettes[Light]
	}
	return p
}

// Styles is the terminal style bundle for one mode.
type Styles struct {
	Card   lipgloss.Style
	Title  lipgloss.Style
	Input  lipgloss.Style
	Button lipgloss.Style
	Error  lipgloss.Style
	Result lipgloss.Style
	Hint   lipgloss.Style
}

// NewStyles builds the style bundle for mode on renderer r. The renderer
// owns colour-profile detection, so the same bundle degrades on terminals
// without colour support. A nil renderer uses the process default.
func NewStyles(mode Mode, r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := PaletteFor(mode)

	return Styles{
		Card: r.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Background(lipgloss.Color(p.Surface)).
			Foreground(lipgloss.Color(p.Foreground)),
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Foreground)).
			MarginBottom(1),
		Input: r.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Foreground(lipgloss.Color(p.Foreground)),
		Button: r.NewStyle().
			Padding(0, 2).
			Bold(true).
			Background(lipgloss.Color(p.Primary)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Error: r.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color(p.Danger)),
		Result: r.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color(p.Result)),
		Hint: r.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color(p.Muted)),
	}
}
