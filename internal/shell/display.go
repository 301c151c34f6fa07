package shell

import (
	"strconv"

	"weather-now/internal/weather"
)

const (
	Title       = "Weather Now"
	Placeholder = "Enter city name..."
	ButtonLabel = "Search"
)

// Line is one labelled row of the result region.
type Line struct {
	Icon  string
	Label string
	Value string
}

func (l Line) String() string {
	return l.Icon + " " + l.Label + ": " + l.Value
}

// Lines formats a reading for display. Numbers print in their shortest
// exact form, so 30 stays "30" and 30.5 stays "30.5".
func Lines(r weather.Reading) []Line {
	return []Line{
		{Icon: "🌡", Label: "Temperature", Value: FormatNumber(r.Temperature) + "°C"},
		{Icon: "💨", Label: "Wind", Value: FormatNumber(r.WindSpeed) + " km/h"},
		{Icon: "⛅", Label: "Code", Value: strconv.Itoa(r.WeatherCode)},
	}
}

func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
