// Package predictform implements the prediction form screen: eight labelled
// inputs and a Predict button backed by a FieldSet and a submission
// controller.
package predictform

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cropyield/internal/form"
	"github.com/abhisek/cropyield/internal/router"
	"github.com/abhisek/cropyield/internal/screen"
	"github.com/abhisek/cropyield/internal/screens/history"
	"github.com/abhisek/cropyield/internal/store"
	"github.com/abhisek/cropyield/internal/submission"
	"github.com/abhisek/cropyield/internal/ui/components"
	"github.com/abhisek/cropyield/internal/ui/layout"
)

const inputWidth = 18

// placeholders are example values shown in empty inputs.
var placeholders = map[form.Field]string{
	form.CropYear:           "2020",
	form.Area:               "100.5",
	form.Production:         "2500",
	form.AnnualRainfall:     "800",
	form.Fertilizer:         "50",
	form.Pesticide:          "5",
	form.Humidity:           "60",
	form.AverageTemperature: "25",
}

// FormScreen implements screen.Screen for the prediction form.
type FormScreen struct {
	fields  *form.FieldSet
	ctrl    *submission.Controller
	repo    store.PredictionRepo
	order   []form.Field
	inputs  []components.TextInput
	button  components.Button
	focus   int // index into inputs; len(inputs) is the button
	baseCtx context.Context
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)
var _ screen.BackgroundReceiver = (*FormScreen)(nil)

// New creates the form screen. repo may be nil, which hides the history
// shortcut.
func New(ctrl *submission.Controller, repo store.PredictionRepo) *FormScreen {
	s := &FormScreen{
		fields:  form.NewFieldSet(),
		ctrl:    ctrl,
		repo:    repo,
		order:   form.Fields(),
		baseCtx: context.Background(),
	}

	labelWidth := 0
	for _, f := range s.order {
		labelWidth = max(labelWidth, len([]rune(f.Label())))
	}
	for _, f := range s.order {
		ti := components.NewTextInput(f.Label(), placeholders[f], inputWidth)
		ti.LabelWidth = labelWidth + 1
		s.inputs = append(s.inputs, ti)
	}
	s.button = components.NewButton("Predict", false, s.submit)
	return s
}

func (s *FormScreen) Init() tea.Cmd {
	return s.setFocus(0)
}

func (s *FormScreen) Title() string {
	return "Predict"
}

func (s *FormScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
		{Key: "Enter", Description: "Next/Predict"},
		{Key: "Ctrl+S", Description: "Predict"},
	}
	if s.repo != nil {
		hints = append(hints, layout.KeyHint{Key: "F2", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// AcceptsInBackground claims submission outcomes so they are reconciled
// while the history screen is open.
func (s *FormScreen) AcceptsInBackground(msg tea.Msg) bool {
	_, ok := msg.(ResolvedMsg)
	return ok
}

// State exposes the controller snapshot for the view and tests.
func (s *FormScreen) State() submission.State {
	return s.ctrl.State()
}

func (s *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ResolvedMsg:
		s.ctrl.Resolve(msg.Outcome)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *FormScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab", "up":
		return s, s.setFocus(s.focus - 1)
	case "ctrl+s":
		return s, s.submit()
	case "f2":
		if s.repo == nil {
			return s, nil
		}
		hs := history.New(s.repo)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: hs} }
	case "enter":
		if s.onButton() {
			var cmd tea.Cmd
			s.button, cmd = s.button.Update(msg)
			return s, cmd
		}
		return s, s.setFocus(s.focus + 1)
	}

	if s.onButton() {
		var cmd tea.Cmd
		s.button, cmd = s.button.Update(msg)
		return s, cmd
	}
	return s.forwardToInput(msg)
}

// forwardToInput passes msg to the focused input and mirrors its value
// into the field set.
func (s *FormScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.onButton() {
		return s, nil
	}

	i := s.focus
	before := s.inputs[i].Value()

	var cmd tea.Cmd
	s.inputs[i], cmd = s.inputs[i].Update(msg)

	if v := s.inputs[i].Value(); v != before {
		s.fields.UpdateField(s.order[i], v)
		s.inputs[i].SetInvalid(false)
	}
	return s, cmd
}

func (s *FormScreen) onButton() bool {
	return s.focus == len(s.inputs)
}

// setFocus moves focus to index i, wrapping around the inputs and button.
func (s *FormScreen) setFocus(i int) tea.Cmd {
	n := len(s.inputs) + 1
	i = ((i % n) + n) % n

	if !s.onButton() {
		s.inputs[s.focus].Blur()
	}
	s.focus = i

	s.button.Active = s.onButton()
	if s.onButton() {
		return nil
	}
	return s.inputs[i].Focus()
}

// submit starts a submission and returns the command that performs the
// round trip off the update loop.
func (s *FormScreen) submit() tea.Cmd {
	ticket, err := s.ctrl.Begin(s.fields.ToPredictionRequest())
	s.markInvalid(err)
	if err != nil {
		return nil
	}

	ctrl, ctx := s.ctrl, s.baseCtx
	return func() tea.Msg {
		return ResolvedMsg{Outcome: ctrl.Fetch(ctx, ticket)}
	}
}

func (s *FormScreen) markInvalid(err error) {
	var verr *form.ValidationError
	hasFields := errors.As(err, &verr)
	for i, f := range s.order {
		s.inputs[i].SetInvalid(hasFields && verr.Has(f))
	}
}
