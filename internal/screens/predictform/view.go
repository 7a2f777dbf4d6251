package predictform

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cropyield/internal/submission"
	"github.com/abhisek/cropyield/internal/ui/layout"
	"github.com/abhisek/cropyield/internal/ui/theme"
)

func (s *FormScreen) View(width, height int) string {
	gap := !layout.IsCompactHeight(height)

	var rows []string
	for _, in := range s.inputs {
		rows = append(rows, in.View())
		if gap {
			rows = append(rows, "")
		}
	}
	if !gap {
		rows = append(rows, "")
	}
	rows = append(rows, s.button.View())

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Enter the field indicators and press Predict."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderStatus(s.State(), s.ctrl.Strict())))
	return b.String()
}

// renderStatus renders the result line followed by the pending or failure
// note. A failure keeps the previous result on screen.
func renderStatus(st submission.State, strict bool) string {
	var lines []string

	if st.HasResult {
		lines = append(lines, theme.Result.Render(
			fmt.Sprintf("Predicted Yield: %s %s", st.Display(), submission.YieldUnit)))
	}

	switch st.Status {
	case submission.StatusIdle:
		hint := "No prediction yet."
		if strict {
			hint += " Inputs are validated before sending."
		}
		lines = append(lines, theme.Hint.Render(hint))
	case submission.StatusPending:
		note := "Predicting..."
		if st.InFlight > 1 {
			note = fmt.Sprintf("Predicting... (%d requests in flight)", st.InFlight)
		}
		lines = append(lines, theme.Pending.Render(note))
	case submission.StatusFailed:
		lines = append(lines, theme.Failure.Render("Prediction failed: "+errorText(st.Err)))
	}

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
