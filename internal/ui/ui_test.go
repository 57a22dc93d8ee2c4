package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/client"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

func testChart() *chart.Snapshot {
	return &chart.Snapshot{
		Name:  "Ada",
		Date:  "1815-12-10",
		Place: "London",
		Bodies: []chart.Body{
			{Name: "Sun", Symbol: "☉", Angle: 10},
			{Name: "Moon", Symbol: "☽", Angle: 100},
			{Name: "Mars", Symbol: "♂", Angle: 190},
		},
		Aspects: []chart.Aspect{
			{From: "Sun", To: "Moon", Type: chart.Square, Separation: 90},
			{From: "Sun", To: "Mars", Type: chart.Opposition, Separation: 180},
		},
	}
}

type fakeGenerator struct {
	calls int
	res   client.Result
}

func (f *fakeGenerator) Generate(_ context.Context, req client.Request) client.Result {
	f.calls++
	res := f.res
	res.Request = req
	return res
}

type fakeSaver struct {
	saved []theme.Theme
}

func (f *fakeSaver) Save(t theme.Theme) error {
	f.saved = append(f.saved, t)
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update feeds msg to m and returns the new model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// run executes cmd and returns the messages it produced, flattening batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func loadedModel(t *testing.T, opts Options) Model {
	t.Helper()
	st := state.NewManager(state.DefaultConfig())
	st.Load(testChart(), "test")
	opts.State = st
	m := New(opts)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return m
}

func TestModel_NotReadyUntilSized(t *testing.T) {
	m := New(Options{})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q before WindowSizeMsg", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if !m.ready {
		t.Error("model not ready after WindowSizeMsg")
	}
	if !strings.Contains(m.View(), "No chart") {
		t.Error("empty model should say there is no chart")
	}
}

func TestModel_StartsOnFormWithoutChart(t *testing.T) {
	m := New(Options{Generator: &fakeGenerator{}})
	assert.Equal(t, ViewForm, m.viewMode)

	m = New(Options{})
	assert.Equal(t, ViewWheel, m.viewMode, "no generator means no form")
}

func TestModel_ChartLoaded(t *testing.T) {
	m := New(Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, ChartLoadedMsg{Snapshot: testChart(), Source: "ada.json"})

	view := m.View()
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "Aspects (2)")
	assert.Contains(t, view, "Loaded ada.json")
	assert.True(t, m.state.HasData())
}

func TestModel_KeysCycleHover(t *testing.T) {
	m := loadedModel(t, Options{})

	m, _ = update(t, m, key("j"))
	h := m.wheel.Hover()
	require.NotNil(t, h.Target)
	assert.Equal(t, wheel.TargetBody, h.Target.Kind)
	assert.Equal(t, "Sun", h.Target.Name)
	require.NotNil(t, h.Tooltip)
	assert.Contains(t, m.View(), h.Tooltip.Text)

	m, _ = update(t, m, key("k"))
	assert.Equal(t, "Mars", m.wheel.Hover().Target.Name, "k wraps to the last body")

	m, _ = update(t, m, key("a"))
	h = m.wheel.Hover()
	require.NotNil(t, h.Target)
	assert.Equal(t, wheel.TargetAspect, h.Target.Kind)
	assert.Equal(t, 0, h.Target.Index)

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.wheel.Hover().Active())
}

func TestModel_MouseHover(t *testing.T) {
	m := loadedModel(t, Options{})

	marker, ok := m.wheel.proj.Layout().Marker("Moon")
	require.True(t, ok)
	col, row, ok := m.wheel.Canvas().PointToCell(marker.At)
	require.True(t, ok)

	m, _ = update(t, m, tea.MouseMsg{X: col, Y: row + headerHeight, Action: tea.MouseActionMotion})
	h := m.wheel.Hover()
	require.NotNil(t, h.Target)
	assert.Equal(t, "Moon", h.Target.Name)

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.False(t, m.wheel.Hover().Active(), "pointer above the canvas clears the hover")
}

func TestModel_ThemeToggleSaves(t *testing.T) {
	saver := &fakeSaver{}
	m := loadedModel(t, Options{Themes: saver, Theme: theme.Dark})

	m, cmd := update(t, m, key("t"))
	assert.Equal(t, theme.Light, m.theme)

	msgs := run(cmd)
	_, ok := find[themeSavedMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, []theme.Theme{theme.Light}, saver.saved)
}

func TestModel_FormRejectsInvalidInput(t *testing.T) {
	gen := &fakeGenerator{}
	m := New(Options{Generator: gen})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	m, cmd := update(t, m, key("enter"))
	assert.Empty(t, run(cmd))
	assert.Equal(t, 0, gen.calls)
	assert.Contains(t, m.View(), "missing required field")
	assert.Equal(t, fieldDate, m.form.focus)
}

func TestModel_FormSubmitLoadsChart(t *testing.T) {
	gen := &fakeGenerator{res: client.Result{Snapshot: testChart()}}
	m := New(Options{
		Generator: gen,
		Prefill:   client.Request{Name: "Ada", Date: "1815-12-10", Time: "12:00", Place: "London"},
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	_, cmd := m.form.Update(key("enter"))
	submit, ok := find[submitMsg](run(cmd))
	require.True(t, ok)
	assert.Equal(t, "London", submit.request.Place)

	m, cmd = update(t, m, submit)
	assert.True(t, m.form.Submitting())
	done, ok := find[generateDoneMsg](run(cmd))
	require.True(t, ok)
	assert.Equal(t, 1, gen.calls)

	m, _ = update(t, m, done)
	assert.Equal(t, ViewWheel, m.viewMode)
	assert.False(t, m.form.Submitting())
	assert.Equal(t, "Ada", m.state.Chart().Name)
	assert.Contains(t, m.View(), "Loaded chart for Ada")
}

func TestModel_FormShowsServiceError(t *testing.T) {
	gen := &fakeGenerator{res: client.Result{Err: &client.APIError{Status: 400, Message: "Place not found"}}}
	m := New(Options{Generator: gen})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	m, cmd := update(t, m, submitMsg{request: client.Request{Date: "2000-01-01", Time: "12:00", Place: "Atlantis"}})
	done, ok := find[generateDoneMsg](run(cmd))
	require.True(t, ok)

	m, _ = update(t, m, done)
	assert.Equal(t, ViewForm, m.viewMode)
	assert.Contains(t, m.View(), "Place not found")
	assert.Nil(t, m.state.Chart())
}

func TestModel_EscLeavesFormOnlyWithChart(t *testing.T) {
	m := loadedModel(t, Options{Generator: &fakeGenerator{}})
	m, _ = update(t, m, key("n"))
	require.Equal(t, ViewForm, m.viewMode)

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewWheel, m.viewMode)

	m = New(Options{Generator: &fakeGenerator{}})
	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewForm, m.viewMode)
}

func TestModel_ErrorMsgRecorded(t *testing.T) {
	m := loadedModel(t, Options{})
	m, _ = update(t, m, ErrorMsg{Error: errors.New("file vanished")})

	assert.Contains(t, m.View(), "file vanished")
	assert.Equal(t, "Ada", m.state.Chart().Name, "errors keep the chart")
}

func TestModel_Quit(t *testing.T) {
	m := loadedModel(t, Options{})
	_, cmd := update(t, m, key("q"))
	msgs := run(cmd)
	_, ok := find[tea.QuitMsg](msgs)
	assert.True(t, ok)
}
