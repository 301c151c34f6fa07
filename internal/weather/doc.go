// Package weather resolves a free-text city name to current conditions.
//
// A lookup is two dependent provider calls, geocoding then forecast:
//
//	client := weather.NewClient(weather.DefaultGeocodingURL, weather.DefaultForecastURL, logger)
//	svc := weather.NewService(client, logger)
//	out := svc.Lookup(ctx, "Chennai")
//	if out.OK() {
//		fmt.Println(out.Reading.Temperature)
//	}
//
// Lookup never returns an error. Failures come back as an Outcome with
// KindNotFound or KindFetchFailed and a message fit for display.
package weather
