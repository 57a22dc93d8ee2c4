// Package render draws wheel frames as SVG documents, coloured terminal
// canvases and plain ASCII mini wheels.
package render

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

// Aspect and marker stroke styles.
const (
	aspectWidth          = 1.3
	aspectOpacity        = 0.8
	aspectHighlightWidth = 3.0

	markerStroke          = 1.0
	markerHighlightStroke = 2.5

	tooltipFontSize = 12
	tooltipRadius   = 6
)

// WriteSVG writes the frame as a standalone SVG document. Primitives are
// emitted in layout order with the tooltip, if any, on top.
func WriteSVG(w io.Writer, f wheel.Frame, t theme.Theme) error {
	if f.Layout == nil {
		return fmt.Errorf("render svg: no layout")
	}
	ew := &errWriter{w: w}
	pal := t.Palette()
	l := f.Layout
	size := ri(l.Viewport.Size)

	canvas := svg.New(ew)
	canvas.Start(size, size,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, size, size),
		fmt.Sprintf(`data-theme="%s"`, t))
	canvas.Title("Natal chart")
	canvas.Rect(0, 0, size, size, attr("fill", pal.Background))

	canvas.Gid("wedges")
	for _, wd := range l.Wedges {
		canvas.Path(wd.Path(),
			attr("fill", pal.HouseFills[wd.Index%len(pal.HouseFills)]),
			attrf("opacity", pal.WedgeAlpha),
			attr("stroke", "none"))
	}
	canvas.Gend()

	canvas.Gid("dividers")
	for _, d := range l.Dividers {
		stroke := pal.HouseLine
		if d.Kind == wheel.DividerZodiac {
			stroke = pal.ZodiacLine
		}
		canvas.Line(ri(d.From.X), ri(d.From.Y), ri(d.To.X), ri(d.To.Y),
			attr("stroke", stroke), attrf("stroke-width", 1))
	}
	canvas.Gend()

	canvas.Gid("rings")
	for _, r := range l.Rings {
		canvas.Circle(ri(r.Center.X), ri(r.Center.Y), ri(r.Radius),
			attr("fill", "none"), attr("stroke", pal.RingStroke), attrf("stroke-width", 1.5))
	}
	canvas.Gend()

	canvas.Gid("labels")
	for _, lb := range l.SignLabels {
		text(canvas, lb, pal.Text, false)
	}
	for _, lb := range l.HouseLabels {
		text(canvas, lb, pal.HouseNumber, true)
	}
	canvas.Gend()

	canvas.Gid("aspects")
	for _, a := range l.Aspects {
		width, opacity := aspectWidth, aspectOpacity
		if f.Hover.AspectHighlighted(a.Index) {
			width, opacity = aspectHighlightWidth, 1
		}
		canvas.Line(ri(a.P1.X), ri(a.P1.Y), ri(a.P2.X), ri(a.P2.Y),
			attr("stroke", a.Color),
			attrf("stroke-width", width),
			attrf("opacity", opacity),
			attr("data-aspect", fmt.Sprint(a.Index)),
			attr("data-type", string(a.Aspect.Type)))
	}
	canvas.Gend()

	canvas.Gid("bodies")
	for _, m := range l.Bodies {
		fill, stroke, sw := pal.MarkerFill, pal.MarkerStroke, markerStroke
		if f.Hover.MarkerHighlighted(m.Index) {
			fill, stroke, sw = pal.MarkerHighlight, pal.MarkerHighlightEdge, markerHighlightStroke
		}
		canvas.Group(attr("data-body", m.Body.Name))
		canvas.Circle(ri(m.At.X), ri(m.At.Y), ri(m.Radius),
			attr("fill", fill), attr("stroke", stroke), attrf("stroke-width", sw))
		canvas.Text(ri(m.At.X), ri(m.At.Y+4), m.Body.Symbol,
			attr("text-anchor", "middle"),
			attrf("font-size", m.FontSize),
			attr("fill", pal.Text))
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gid("axes")
	for _, lb := range l.Axes {
		text(canvas, lb, pal.Axis, true)
	}
	canvas.Gend()

	if h := l.Hub; h != nil {
		canvas.Gid("hub")
		canvas.Circle(ri(h.Center.X), ri(h.Center.Y), ri(h.Radius), attr("fill", pal.HubFill))
		canvas.Text(ri(h.Center.X), ri(h.Center.Y+4), h.Glyph,
			attr("text-anchor", "middle"),
			attrf("font-size", h.FontSize),
			attr("font-weight", "bold"),
			attr("fill", pal.HubGlyph))
		canvas.Gend()
	}

	if tip := f.Hover.Tooltip; tip != nil {
		b := tip.Box
		canvas.Gid("tooltip")
		canvas.Roundrect(ri(b.X), ri(b.Y), ri(b.W), ri(b.H), tooltipRadius, tooltipRadius,
			attr("fill", pal.TooltipFill), attrf("opacity", pal.TooltipOpacity))
		canvas.Text(ri(tip.TextAt.X), ri(tip.TextAt.Y), tip.Text,
			attr("text-anchor", "middle"),
			attrf("font-size", tooltipFontSize),
			attr("fill", pal.TooltipText))
		canvas.Gend()
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("render svg: %w", ew.err)
	}
	return nil
}

func text(canvas *svg.SVG, lb wheel.Label, fill string, bold bool) {
	attrs := []string{
		attr("text-anchor", "middle"),
		attr("dominant-baseline", "middle"),
		attrf("font-size", lb.FontSize),
		attr("fill", fill),
	}
	if bold {
		attrs = append(attrs, attr("font-weight", "bold"))
	}
	canvas.Text(ri(lb.At.X), ri(lb.At.Y), lb.Text, attrs...)
}

// attr formats a single SVG attribute; svgo passes strings containing '='
// through verbatim, so the value is escaped here.
func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func attrf(name string, value float64) string {
	return fmt.Sprintf(`%s="%.4g"`, name, value)
}

func ri(f float64) int {
	return int(math.Round(f))
}

// errWriter remembers the first write error so the svgo calls, which do not
// report errors, can be checked once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
