// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/client"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/version"
	"github.com/litescript/ls-natal/internal/wheel"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewWheel ViewMode = iota
	ViewForm
)

// headerHeight is the number of lines above the content area.
const headerHeight = 3

// footerHeight is the number of lines below the content area.
const footerHeight = 2

// Generator produces charts; *client.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req client.Request) client.Result
}

// ThemeSaver persists the selected theme; theme.Store satisfies it.
type ThemeSaver interface {
	Save(t theme.Theme) error
}

// Msg types for Bubble Tea
type (
	// ChartLoadedMsg replaces the displayed chart, e.g. after a file change.
	ChartLoadedMsg struct {
		Snapshot *chart.Snapshot
		Source   string
	}

	// ErrorMsg reports a background failure.
	ErrorMsg struct {
		Error error
	}

	// generateDoneMsg carries the result of a form submission.
	generateDoneMsg struct {
		result client.Result
	}

	// themeSavedMsg reports the outcome of persisting the theme.
	themeSavedMsg struct {
		theme theme.Theme
		err   error
	}
)

// Options wires the model's dependencies.
type Options struct {
	Context   context.Context
	State     *state.Manager
	Generator Generator
	Projector *wheel.Projector
	Themes    ThemeSaver
	Theme     theme.Theme
	Prefill   client.Request
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx    context.Context
	state  *state.Manager
	gen    Generator
	themes ThemeSaver

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	theme     theme.Theme

	// Sub-models
	wheel WheelModel
	form  FormModel
}

// New creates a new root UI model.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.State == nil {
		opts.State = state.NewManager(state.DefaultConfig())
	}
	if opts.Projector == nil {
		opts.Projector = wheel.NewProjector(wheel.DefaultConfig())
	}
	if opts.Theme == "" {
		opts.Theme = theme.Default
	}

	m := Model{
		ctx:    opts.Context,
		state:  opts.State,
		gen:    opts.Generator,
		themes: opts.Themes,
		theme:  opts.Theme,
		wheel:  NewWheelModel(opts.Projector, opts.Theme),
		form:   NewFormModel(opts.Prefill),
	}
	if snap := opts.State.Chart(); snap != nil {
		m.wheel = m.wheel.SetChart(snap)
	} else if opts.Generator != nil {
		m.viewMode = ViewForm
		m.form = m.form.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.viewMode == ViewForm {
		return m.form.Init()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.viewMode == ViewForm {
			if msg.String() == "esc" && m.state.HasData() {
				m.viewMode = ViewWheel
				m.form = m.form.Blur()
				break
			}
			cmds = append(cmds, m.updateActiveView(msg))
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "n", "g":
			if m.gen == nil {
				m.statusMsg = "Chart generation is not configured"
				break
			}
			m.viewMode = ViewForm
			m.form = m.form.Focus()
			cmds = append(cmds, m.form.Init())
		case "t":
			m.theme = m.theme.Toggle()
			m.wheel = m.wheel.SetTheme(m.theme)
			m.statusMsg = "Theme: " + m.theme.String()
			if m.themes != nil {
				cmds = append(cmds, saveTheme(m.themes, m.theme))
			}
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.MouseMsg:
		if m.viewMode == ViewWheel {
			msg.Y -= headerHeight
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentHeight := msg.Height - headerHeight - footerHeight
		m.wheel = m.wheel.SetSize(msg.Width, contentHeight)
		m.form = m.form.SetSize(msg.Width, contentHeight)

	case submitMsg:
		if m.gen == nil {
			break
		}
		m.form = m.form.SetSubmitting(true)
		m.statusMsg = "Generating chart for " + msg.request.Normalized().Name + "..."
		cmds = append(cmds, generateCmd(m.ctx, m.gen, msg.request))

	case generateDoneMsg:
		m.state.Apply(msg.result)
		m.form = m.form.SetSubmitting(false)
		if msg.result.Err != nil {
			m.form = m.form.SetError(msg.result.Err)
			m.statusMsg = ""
			break
		}
		m.wheel = m.wheel.SetChart(msg.result.Snapshot)
		m.viewMode = ViewWheel
		m.form = m.form.Blur().SetError(nil)
		m.statusMsg = loadedStatus(msg.result)

	case ChartLoadedMsg:
		m.state.Load(msg.Snapshot, msg.Source)
		m.wheel = m.wheel.SetChart(msg.Snapshot)
		if msg.Source != "" {
			m.statusMsg = "Loaded " + msg.Source
		}

	case ErrorMsg:
		m.state.Fail(msg.Error)

	case themeSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Theme not saved: %v", msg.err)
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewWheel:
		m.wheel, cmd = m.wheel.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewWheel:
		content = m.wheel.View()
	case ViewForm:
		content = m.form.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := "  ls-natal"
	var b strings.Builder
	for i, r := range []rune(title) {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(i, len(title)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  natal chart wheel · v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex colour for a position in the title gradient:
// blue to purple to magenta.
func gradientColor(col, width int) string {
	x := float64(col) / float64(width)
	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else {
		t := (x - 0.5) / 0.5
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"Wheel", "New chart"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	snap := m.state.Snapshot()
	var status string
	switch {
	case m.statusMsg != "":
		status = dimStyle.Render(m.statusMsg)
	case snap.LastError != nil:
		status = errorStyle.Render("ERROR: " + snap.LastError.Error())
	case snap.Chart != nil:
		status = dimStyle.Render(snap.Chart.Name)
		if snap.FetchDuration > 0 {
			status += dimStyle.Render(" (" + snap.FetchDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = dimStyle.Render("No chart loaded")
	}

	var help string
	switch m.viewMode {
	case ViewForm:
		help = "tab/↑↓: field | enter: generate | esc: back"
	default:
		help = "mouse: hover | j/k: body | a/A: aspect | esc: clear | n: new | t: theme | q: quit"
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

func loadedStatus(res client.Result) string {
	name := res.Request.Name
	if res.Snapshot != nil && res.Snapshot.Name != "" {
		name = res.Snapshot.Name
	}
	s := fmt.Sprintf("Loaded chart for %s", name)
	if res.Cached {
		s += " (cached)"
	}
	if res.Snapshot != nil && res.Snapshot.Warning != "" {
		s += " · " + res.Snapshot.Warning
	}
	return s
}

func generateCmd(ctx context.Context, gen Generator, req client.Request) tea.Cmd {
	return func() tea.Msg {
		return generateDoneMsg{result: gen.Generate(ctx, req)}
	}
}

func saveTheme(s ThemeSaver, t theme.Theme) tea.Cmd {
	return func() tea.Msg {
		return themeSavedMsg{theme: t, err: s.Save(t)}
	}
}

// SendChart creates a command that loads a chart.
func SendChart(snap *chart.Snapshot, source string) tea.Cmd {
	return func() tea.Msg {
		return ChartLoadedMsg{Snapshot: snap, Source: source}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
