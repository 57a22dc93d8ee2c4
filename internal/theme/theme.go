// Package theme defines the light and dark colour schemes and their
// persistence. A Theme value is passed explicitly to every renderer.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme selects a colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is the theme used when nothing has been saved.
const Default = Light

// Parse converts a user-supplied name to a Theme.
func Parse(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// Palette is the set of colours used to draw a wheel. SVG colours are CSS
// hex strings; terminal colours are lipgloss colours.
type Palette struct {
	Background  string
	Text        string
	HouseNumber string
	HouseFills  [12]string
	WedgeAlpha  float64
	RingStroke  string
	HouseLine   string
	ZodiacLine  string
	Axis        string

	MarkerFill          string
	MarkerStroke        string
	MarkerHighlight     string
	MarkerHighlightEdge string

	HubFill  string
	HubGlyph string

	TooltipFill    string
	TooltipText    string
	TooltipOpacity float64

	// Terminal.
	TermRing      lipgloss.Color
	TermDivider   lipgloss.Color
	TermSign      lipgloss.Color
	TermHouse     lipgloss.Color
	TermAxis      lipgloss.Color
	TermBody      lipgloss.Color
	TermHighlight lipgloss.Color
	TermHub       lipgloss.Color
	TermDim       lipgloss.Color
	TermTitle     lipgloss.Color
}

// Pastel house wedge fills, shared by both themes.
var houseFills = [12]string{
	"#ffe0e0", "#fff0d0", "#f0ffe0", "#e0fff7",
	"#e0f0ff", "#f0e0ff", "#ffe0f7", "#fff7d9",
	"#e6ffe0", "#e0fff0", "#e0f7ff", "#f0e0ff",
}

var lightPalette = Palette{
	Background:  "#ffffff",
	Text:        "#000000",
	HouseNumber: "#333333",
	HouseFills:  houseFills,
	WedgeAlpha:  0.25,
	RingStroke:  "#444444",
	HouseLine:   "#999999",
	ZodiacLine:  "#666666",
	Axis:        "#b8860b",

	MarkerFill:          "#ffffff",
	MarkerStroke:        "#333333",
	MarkerHighlight:     "#ffd54f",
	MarkerHighlightEdge: "#e65100",

	HubFill:  "#f5f5f5",
	HubGlyph: "#111111",

	TooltipFill:    "#000000",
	TooltipText:    "#ffffff",
	TooltipOpacity: 0.75,

	TermRing:      lipgloss.Color("240"),
	TermDivider:   lipgloss.Color("246"),
	TermSign:      lipgloss.Color("25"),
	TermHouse:     lipgloss.Color("242"),
	TermAxis:      lipgloss.Color("136"),
	TermBody:      lipgloss.Color("16"),
	TermHighlight: lipgloss.Color("166"),
	TermHub:       lipgloss.Color("94"),
	TermDim:       lipgloss.Color("245"),
	TermTitle:     lipgloss.Color("91"),
}

var darkPalette = Palette{
	Background:  "#1a1a2e",
	Text:        "#ffffff",
	HouseNumber: "#ffffff",
	HouseFills:  houseFills,
	WedgeAlpha:  0.12,
	RingStroke:  "#cccccc",
	HouseLine:   "#666680",
	ZodiacLine:  "#8888a0",
	Axis:        "#ffff00",

	MarkerFill:          "#2a2a40",
	MarkerStroke:        "#d0c8ff",
	MarkerHighlight:     "#ffb300",
	MarkerHighlightEdge: "#ffffff",

	HubFill:  "#222222",
	HubGlyph: "#eeeeee",

	TooltipFill:    "#000000",
	TooltipText:    "#ffffff",
	TooltipOpacity: 0.75,

	TermRing:      lipgloss.Color("60"),
	TermDivider:   lipgloss.Color("238"),
	TermSign:      lipgloss.Color("147"),
	TermHouse:     lipgloss.Color("244"),
	TermAxis:      lipgloss.Color("226"),
	TermBody:      lipgloss.Color("255"),
	TermHighlight: lipgloss.Color("229"),
	TermHub:       lipgloss.Color("220"),
	TermDim:       lipgloss.Color("60"),
	TermTitle:     lipgloss.Color("135"),
}

// Palette returns the colours for t. Unknown values get the default palette.
func (t Theme) Palette() Palette {
	if t == Dark {
		return darkPalette
	}
	return lightPalette
}
