package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cropyield/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and an invalid marker.
// Input is free text; coercion happens when the form is submitted.
type TextInput struct {
	Model      textinput.Model
	Label      string
	LabelWidth int
	invalid    bool
}

// NewTextInput creates a blurred, labelled text input.
func NewTextInput(label, placeholder string, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 32
	if width > 0 {
		ti.SetWidth(width)
	}

	return TextInput{
		Model: ti,
		Label: label,
	}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and, when flagged, the invalid marker.
func (t TextInput) View() string {
	labelStyle := theme.Label
	if t.Model.Focused() {
		labelStyle = theme.LabelFocused
	}
	if t.LabelWidth > 0 {
		labelStyle = labelStyle.Width(t.LabelWidth)
	}

	view := labelStyle.Render(t.Label) + " " + t.Model.View()
	if t.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// SetInvalid marks or clears the invalid marker.
func (t *TextInput) SetInvalid(invalid bool) {
	t.invalid = invalid
}

// Invalid reports whether the invalid marker is shown.
func (t TextInput) Invalid() bool {
	return t.invalid
}
