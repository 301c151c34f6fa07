package web

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"weather-now/internal/shell"
	"weather-now/internal/theme"
	"weather-now/internal/weather"
)

const cityParam = "city"

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

type handler struct {
	lookup      Lookup
	defaultCity string
}

type pageData struct {
	Title       string
	Placeholder string
	Button      string
	Dark        bool
	Theme       string
	Palette     theme.Palette
	Query       string
	Message     string
	Lines       []shell.Line
}

type weatherResponse struct {
	Success bool            `json:"success"`
	Data    weather.Reading `json:"data"`
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": appName,
	})
}

// page renders the card. Without a city parameter the card is idle with the
// default city pre-filled; with one, it shows that search's outcome.
func (h *handler) page(c *fiber.Ctx) error {
	mode := theme.FromQuery(string(c.Request().URI().QueryString()))

	state := shell.New(h.defaultCity)
	if c.Request().URI().QueryArgs().Has(cityParam) {
		var ticket shell.Ticket
		state, ticket = state.Edit(c.Query(cityParam)).Search()
		state = state.Resolve(ticket, h.lookup.Lookup(c.UserContext(), ticket.Query))
	}

	data := pageData{
		Title:       shell.Title,
		Placeholder: shell.Placeholder,
		Button:      shell.ButtonLabel,
		Dark:        mode.Dark(),
		Theme:       mode.String(),
		Palette:     theme.PaletteFor(mode),
		Query:       state.Query,
		Message:     state.Message,
	}
	if state.Reading != nil {
		data.Lines = shell.Lines(*state.Reading)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *handler) lookupWeather(c *fiber.Ctx) error {
	out := h.lookup.Lookup(c.UserContext(), c.Query(cityParam))

	switch out.Kind {
	case weather.KindSuccess:
		return c.JSON(weatherResponse{Success: true, Data: out.Reading})
	case weather.KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, messageOr(out, weather.MessageNotFound))
	default:
		return fiber.NewError(fiber.StatusBadGateway, messageOr(out, weather.MessageFetchFailed))
	}
}

func messageOr(out weather.Outcome, fallback string) string {
	if out.Message == "" {
		return fallback
	}
	return out.Message
}
