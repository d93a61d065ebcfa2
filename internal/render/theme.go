package render

// Theme is the palette of one drawing.
type Theme struct {
	Name       string
	Background string
	Text       string
	Axis       string
	Line       string
	Band       string
	Marker     string
	Focus      string
	Dot        string
	Trend      string
	Curve      string
}

// Dark is the blog palette: white text on a dark page.
var Dark = Theme{
	Name:       "dark",
	Background: "#2e2e2e",
	Text:       "white",
	Axis:       "white",
	Line:       "#2171b5",
	Band:       "#e1f3f8",
	Marker:     "red",
	Focus:      "#2171b5",
	Dot:        "orange",
	Trend:      "#ff5733",
	Curve:      "#4292c6",
}

// Light mirrors Dark for light colour schemes.
var Light = Theme{
	Name:       "light",
	Background: "#ffffff",
	Text:       "#000000",
	Axis:       "#000000",
	Line:       "#2171b5",
	Band:       "#e1f3f8",
	Marker:     "red",
	Focus:      "#2171b5",
	Dot:        "steelblue",
	Trend:      "#333333",
	Curve:      "#4292c6",
}

// ThemeByName resolves "light" or "dark"; anything else is Dark.
func ThemeByName(name string) Theme {
	if name == Light.Name {
		return Light
	}
	return Dark
}
