// Package theme resolves the light/dark mode for a surface and the styles
// that go with it.
//
// Integration example:
//
//	mode := theme.FromQuery(r.URL.RawQuery)
//	styles := theme.NewStyles(mode, renderer)
//	title := styles.Title.Render("Weather Now")
//	if mode.Dark() {
//		root.AddClass("dark")
//	}
//
// The mode is resolved once per surface lifetime; unknown or missing values
// fall back to Light without error.
package theme
