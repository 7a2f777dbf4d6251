package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cropyield/internal/router"
	"github.com/abhisek/cropyield/internal/screen"
	"github.com/abhisek/cropyield/internal/store"
	"github.com/abhisek/cropyield/internal/submission"
	"github.com/abhisek/cropyield/internal/ui/layout"
	"github.com/abhisek/cropyield/internal/ui/theme"
)

// pageSize is how many recent events the screen loads.
const pageSize = 50

type historyLoadedMsg struct {
	Events []store.PredictionEventRecord
	Err    error
}

// HistoryScreen lists recent prediction round trips.
type HistoryScreen struct {
	repo     store.PredictionRepo
	events   []store.PredictionEventRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.PredictionRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		events, err := repo.QueryPredictions(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "R", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.events = msg.Events
			s.selected = min(s.selected, max(len(s.events)-1, 0))
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "r":
			s.expanded = make(map[int]bool)
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No predictions yet. Submit the form to get one.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s#%-4d %s  %-10s %5dms  %s",
			prefix, ev.ID, ev.Timestamp.Local().Format("Jan 02 15:04:05"),
			outcomeLabel(ev), ev.LatencyMs, shortID(ev.SubmissionID))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !ev.Success {
			style = style.Foreground(theme.Error)
		}
		if i == s.selected {
			style = style.Bold(true).Foreground(theme.Primary)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderDetails(ev, width))
		}
	}

	return b.String()
}

// outcomeLabel is the yield for successes and the HTTP status otherwise.
func outcomeLabel(ev store.PredictionEventRecord) string {
	if ev.Success && ev.PredictedYield != nil {
		return submission.FormatYield(*ev.PredictedYield)
	}
	if ev.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d", ev.StatusCode)
	}
	return "failed"
}

func renderDetails(ev store.PredictionEventRecord, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := []string{
		"    endpoint: " + ev.Endpoint,
		"    request:  " + ev.RequestBody,
	}
	if ev.ResponseBody != "" {
		lines = append(lines, "    response: "+ev.ResponseBody)
	}
	if ev.ErrorMessage != "" {
		lines = append(lines, "    error:    "+ev.ErrorMessage)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.MaxWidth(max(width-4, 1)).Render(l)))
		b.WriteString("\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
