package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

const (
	// panelWidth is the width of the side panel next to the wheel.
	panelWidth = 38

	// pxPerCol converts terminal columns to layout pixels when sizing the
	// viewport.
	pxPerCol = 10.0

	// maxPanelAspects caps the aspect rows listed in the side panel.
	maxPanelAspects = 12
)

// WheelModel renders the chart wheel on a terminal canvas and maps pointer
// positions back to hover targets.
type WheelModel struct {
	proj  *wheel.Projector
	snap  *chart.Snapshot
	theme theme.Theme

	cols int
	rows int
}

// NewWheelModel creates a wheel view over proj.
func NewWheelModel(proj *wheel.Projector, t theme.Theme) WheelModel {
	return WheelModel{proj: proj, theme: t, cols: 60, rows: 24}
}

// SetSize updates the viewport size. The projector is resized; the hover
// target survives.
func (m WheelModel) SetSize(width, height int) WheelModel {
	m.cols = width - panelWidth - 4
	if m.cols < 20 {
		m.cols = 20
	}
	m.rows = height
	if m.rows < 10 {
		m.rows = 10
	}
	m.proj.Resize(float64(m.cols) * pxPerCol)
	return m
}

// SetChart displays a new chart. The hover is cleared.
func (m WheelModel) SetChart(snap *chart.Snapshot) WheelModel {
	m.snap = snap.Clone()
	m.proj.SetChart(snap)
	return m
}

// SetTheme switches the palette.
func (m WheelModel) SetTheme(t theme.Theme) WheelModel {
	m.theme = t
	return m
}

// Canvas returns an empty canvas matching the current layout, for mapping
// between cells and layout pixels.
func (m WheelModel) Canvas() *render.Canvas {
	return render.NewCanvas(m.cols, m.rows, m.proj.Layout().Viewport)
}

// Hover returns the projector's hover state.
func (m WheelModel) Hover() wheel.HoverState {
	return m.proj.Hover()
}

// Update handles pointer motion and hover keys.
func (m WheelModel) Update(msg tea.Msg) (WheelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
			break
		}
		if msg.X < 0 || msg.Y < 0 || msg.X >= m.cols || msg.Y >= m.rows {
			m.proj.SetHover(nil)
			break
		}
		m.proj.HoverAt(m.Canvas().CellToPoint(msg.X, msg.Y))

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.proj.CycleBody(1)
		case "k", "up":
			m.proj.CycleBody(-1)
		case "a":
			m.proj.CycleAspect(1)
		case "A":
			m.proj.CycleAspect(-1)
		case "esc":
			m.proj.SetHover(nil)
		}
	}
	return m, nil
}

// View renders the wheel and the side panel.
func (m WheelModel) View() string {
	f := m.proj.Frame()
	c := render.NewCanvas(m.cols, m.rows, f.Layout.Viewport)
	render.DrawFrame(c, f, m.theme)

	return lipgloss.JoinHorizontal(lipgloss.Top, c.Render(), "  ", m.renderPanel(f))
}

func (m WheelModel) renderPanel(f wheel.Frame) string {
	pal := m.theme.Palette()
	titleStyle := lipgloss.NewStyle().Foreground(pal.TermTitle).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(pal.TermDim)
	hoverStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.TermHighlight).
		Padding(0, 1).
		Width(panelWidth - 2)

	var b strings.Builder
	if m.snap == nil {
		b.WriteString(dimStyle.Render("No chart"))
		return lipgloss.NewStyle().Width(panelWidth).Render(b.String())
	}

	name := m.snap.Name
	if name == "" {
		name = "Chart"
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	if when := strings.TrimSpace(m.snap.Date + " " + m.snap.Time); when != "" {
		b.WriteString(dimStyle.Render(when))
		b.WriteString("\n")
	}
	if m.snap.Place != "" {
		place := m.snap.Place
		if m.snap.Timezone != "" {
			place += " (" + m.snap.Timezone + ")"
		}
		b.WriteString(dimStyle.Render(place))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if f.Hover.Tooltip != nil {
		b.WriteString(hoverStyle.Render(f.Hover.Tooltip.Text))
	} else {
		b.WriteString(dimStyle.Render("Hover a body or aspect"))
	}
	b.WriteString("\n\n")

	rows := chart.AspectRows(m.snap)
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("Aspects (%d)", len(rows))))
	for i, r := range rows {
		if i == maxPanelAspects {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(rows)-i)))
			b.WriteString("\n")
			break
		}
		line := fmt.Sprintf("%-8s %-11s %s", r.From, r.Type, r.To)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color))
		if f.Hover.AspectHighlighted(i) {
			style = style.Bold(true).Reverse(true)
		}
		if !r.Resolved {
			style = dimStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(panelWidth).Render(b.String())
}
