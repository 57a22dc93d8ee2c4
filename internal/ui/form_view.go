package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/client"
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldDate
	fieldTime
	fieldPlace
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Date", "Time", "Place"}

// submitMsg is emitted when the form passes local validation.
type submitMsg struct {
	request client.Request
}

// FormModel collects the birth data for a new chart.
type FormModel struct {
	inputs     [fieldCount]textinput.Model
	focus      int
	submitting bool
	err        error

	width  int
	height int
}

// NewFormModel creates the form, prefilled from req.
func NewFormModel(req client.Request) FormModel {
	var m FormModel
	placeholders := [fieldCount]string{"Person", "YYYY-MM-DD", "HH:MM", "city, country"}
	values := [fieldCount]string{req.Name, req.Date, req.Time, req.Place}
	limits := [fieldCount]int{64, 10, 5, 128}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "▸ "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	return m
}

// Init starts the cursor blinking.
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Focus focuses the current field.
func (m FormModel) Focus() FormModel {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

// Blur removes focus from every field.
func (m FormModel) Blur() FormModel {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m
}

// SetSize sets the area available to the form.
func (m FormModel) SetSize(width, height int) FormModel {
	m.width = width
	m.height = height
	w := width - 20
	if w > 48 {
		w = 48
	}
	if w < 10 {
		w = 10
	}
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
	return m
}

// SetSubmitting marks a request as in flight. Input is ignored meanwhile.
func (m FormModel) SetSubmitting(v bool) FormModel {
	m.submitting = v
	return m
}

// SetError shows err under the fields; nil clears it.
func (m FormModel) SetError(err error) FormModel {
	m.err = err
	return m
}

// Submitting reports whether a request is in flight.
func (m FormModel) Submitting() bool {
	return m.submitting
}

// Request returns the request described by the current field values.
func (m FormModel) Request() client.Request {
	return client.Request{
		Name:  m.inputs[fieldName].Value(),
		Date:  m.inputs[fieldDate].Value(),
		Time:  m.inputs[fieldTime].Value(),
		Place: m.inputs[fieldPlace].Value(),
	}
}

// Update handles field navigation, editing and submission.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % fieldCount
			return m.Focus(), nil
		case "shift+tab", "up":
			m.focus = (m.focus + fieldCount - 1) % fieldCount
			return m.Focus(), nil
		case "enter":
			req := m.Request()
			if err := req.Validate(); err != nil {
				m.err = err
				m.focus = firstInvalidField(req)
				return m.Focus(), nil
			}
			m.err = nil
			return m, func() tea.Msg { return submitMsg{request: req.Normalized()} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// firstInvalidField returns the field the user should fix first.
func firstInvalidField(req client.Request) int {
	err := req.Validate()
	req = req.Normalized()
	switch {
	case req.Date == "" || errors.Is(err, client.ErrBadDate):
		return fieldDate
	case req.Time == "" || errors.Is(err, client.ErrBadTime):
		return fieldTime
	case req.Place == "":
		return fieldPlace
	}
	return fieldName
}

// View renders the form.
func (m FormModel) View() string {
	labelStyle := lipgloss.NewStyle().Width(8).Foreground(lipgloss.Color("60"))
	activeLabel := labelStyle.Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("New natal chart"))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := labelStyle
		if i == m.focus {
			label = activeLabel
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("Generating..."))
	case m.err != nil:
		for _, line := range strings.Split(m.err.Error(), "\n") {
			b.WriteString(errorStyle.Render(line))
			b.WriteString("\n")
		}
	default:
		b.WriteString(dimStyle.Render("enter to generate"))
	}

	return box.Render(strings.TrimRight(b.String(), "\n"))
}
