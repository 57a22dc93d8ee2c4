package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

// MiniWheelConfig sizes the ASCII wheel.
type MiniWheelConfig struct {
	Cols   int  // inner width in cells
	Rows   int  // inner height in cells
	Legend bool // list bodies below the wheel
}

// DefaultMiniWheelConfig returns a wheel that fits an 80-column terminal.
func DefaultMiniWheelConfig() MiniWheelConfig {
	return MiniWheelConfig{Cols: 48, Rows: 22, Legend: true}
}

// MiniWheelConfigForWidth fits the wheel to a terminal width, keeping the
// default height ratio.
func MiniWheelConfigForWidth(width int) MiniWheelConfig {
	cfg := DefaultMiniWheelConfig()
	if width <= 0 {
		return cfg
	}
	cols := width - 2
	if cols > 72 {
		cols = 72
	}
	if cols < 20 {
		cols = 20
	}
	cfg.Cols = cols
	cfg.Rows = cols/2 - 2
	return cfg
}

// WriteMiniWheel writes an uncoloured, boxed ASCII wheel with an optional
// body legend.
func WriteMiniWheel(w io.Writer, f wheel.Frame, cfg MiniWheelConfig) {
	if f.Layout == nil {
		fmt.Fprintln(w, "No chart")
		return
	}

	c := NewCanvas(cfg.Cols, cfg.Rows, f.Layout.Viewport)
	DrawFrame(c, f, theme.Default)

	cols, _ := c.Size()
	fmt.Fprintf(w, "┌%s┐\n", strings.Repeat("─", cols))
	for _, line := range strings.Split(c.Plain(), "\n") {
		pad := cols - len([]rune(line))
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(w, "│%s%s│\n", line, strings.Repeat(" ", pad))
	}
	fmt.Fprintf(w, "└%s┘\n", strings.Repeat("─", cols))

	if !cfg.Legend {
		return
	}
	if len(f.Layout.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}
	for _, m := range f.Layout.Bodies {
		marker := " "
		if f.Hover.MarkerHighlighted(m.Index) {
			marker = "►"
		}
		fmt.Fprintf(w, "%s %s %s\n", marker, m.Body.Symbol, wheel.BodyTooltipText(m.Body))
	}
	fmt.Fprintf(w, "%d aspects drawn\n", len(f.Layout.Aspects))
}
