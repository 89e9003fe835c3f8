package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/coopdoor/internal/deviceapi"
)

// formKeyMap defines key bindings for the open-time form
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit, k.Cancel}}
}

// OpenTimeForm is a Bubble Tea model with the two open-time fields.
// It satisfies deviceapi.FormReader, so a submitted form can be handed to
// Client.RequestOpenTimeUpdate as is.
type OpenTimeForm struct {
	inputs  []textinput.Model
	ids     []string
	focused int

	Submitted bool
	Canceled  bool
	Err       string

	help help.Model
	keys formKeyMap
}

// NewOpenTimeForm creates the form, prefilled with current (which may be empty).
func NewOpenTimeForm(current deviceapi.OpenTime) OpenTimeForm {
	hours := textinput.New()
	hours.Placeholder = "07"
	hours.CharLimit = 5
	hours.Width = 6
	hours.SetValue(current.Hours)
	hours.Focus()

	minutes := textinput.New()
	minutes.Placeholder = "30"
	minutes.CharLimit = 5
	minutes.Width = 6
	minutes.SetValue(current.Minutes)

	return OpenTimeForm{
		inputs: []textinput.Model{hours, minutes},
		ids:    []string{deviceapi.FieldOpenTimeHours, deviceapi.FieldOpenTimeMinutes},
		help:   help.New(),
		keys: formKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "down"),
				key.WithHelp("tab", "next field"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab", "previous field"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "save"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc", "ctrl+c"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Value returns the current text of the field with the given id.
func (m OpenTimeForm) Value(id string) string {
	for i, fieldID := range m.ids {
		if fieldID == id {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// Init implements tea.Model
func (m OpenTimeForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m OpenTimeForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.Canceled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			if _, err := deviceapi.ReadOpenTime(m); err != nil {
				m.Err = deviceapi.ValidationNotice().Text
				return m, nil
			}
			m.Err = ""
			m.Submitted = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			cmd := m.focus((m.focused + 1) % len(m.inputs))
			return m, cmd

		case key.Matches(msg, m.keys.Prev):
			cmd := m.focus((m.focused + len(m.inputs) - 1) % len(m.inputs))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// focus moves the cursor to field i. The model is a value, so it edits the
// shared inputs slice in place.
func (m *OpenTimeForm) focus(i int) tea.Cmd {
	m.inputs[m.focused].Blur()
	m.focused = i
	return m.inputs[i].Focus()
}

// View implements tea.Model
func (m OpenTimeForm) View() string {
	var b strings.Builder

	b.WriteString(HeaderTitleStyle.Render("AUFMACHZEIT"))
	b.WriteString("\n\n")

	labels := []string{"Stunden", "Minuten"}
	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("%s %s\n", FormLabelStyle.Render(labels[i]), input.View()))
	}
	b.WriteString("\n")

	if m.Err != "" {
		b.WriteString(FormErrorStyle.Render(FailureMarker + " " + m.Err))
		b.WriteString("\n\n")
	}

	b.WriteString("  " + m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// RunOpenTimeForm shows the form and returns it once the user saves or cancels.
func RunOpenTimeForm(current deviceapi.OpenTime) (OpenTimeForm, error) {
	final, err := tea.NewProgram(NewOpenTimeForm(current)).Run()
	if err != nil {
		return OpenTimeForm{}, fmt.Errorf("open time form: %w", err)
	}
	form, ok := final.(OpenTimeForm)
	if !ok {
		return OpenTimeForm{}, fmt.Errorf("open time form: unexpected model %T", final)
	}
	return form, nil
}
