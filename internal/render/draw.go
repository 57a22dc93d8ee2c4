package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

// Terminal glyphs.
const (
	glyphOuterRing      = '·'
	glyphHouseRing      = '·'
	glyphZodiacDivider  = ':'
	glyphHouseDivider   = '.'
	glyphAspect         = '∙'
	glyphAspectFocused  = '•'
	glyphMarkerFallback = '●'
)

// DrawFrame rasterises a frame onto the canvas in layout order. Wedges are
// not filled in the terminal; their boundaries are the dividers.
func DrawFrame(c *Canvas, f wheel.Frame, t theme.Theme) {
	l := f.Layout
	if l == nil {
		return
	}
	pal := t.Palette()
	vp := l.Viewport

	for _, d := range l.Dividers {
		if d.Kind == wheel.DividerZodiac {
			c.Line(d.From, d.To, glyphZodiacDivider, pal.TermDivider)
		} else {
			c.Line(d.From, d.To, glyphHouseDivider, pal.TermDim)
		}
	}

	for _, r := range l.Rings {
		if r.Kind == wheel.RingOuter {
			c.Circle(vp, r.Radius, glyphOuterRing, pal.TermRing)
		} else {
			c.Circle(vp, r.Radius, glyphHouseRing, pal.TermDim)
		}
	}

	for _, lb := range l.SignLabels {
		c.Text(lb.At, lb.Text, pal.TermSign)
	}
	for _, lb := range l.HouseLabels {
		c.Text(lb.At, lb.Text, pal.TermHouse)
	}

	for _, a := range l.Aspects {
		glyph := glyphAspect
		if f.Hover.AspectHighlighted(a.Index) {
			glyph = glyphAspectFocused
		}
		c.Line(a.P1, a.P2, glyph, lipgloss.Color(a.Color))
	}

	for _, m := range l.Bodies {
		color := pal.TermBody
		if f.Hover.MarkerHighlighted(m.Index) {
			color = pal.TermHighlight
		}
		c.Plot(m.At, markerGlyph(m.Body.Symbol), color)
	}

	for _, lb := range l.Axes {
		c.Text(lb.At, lb.Text, pal.TermAxis)
	}

	if h := l.Hub; h != nil {
		c.Text(h.Center, h.Glyph, pal.TermHub)
	}
}

func markerGlyph(symbol string) rune {
	for _, r := range symbol {
		return r
	}
	return glyphMarkerFallback
}
