// Package screen defines what the router needs from a screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cropyield/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	// Init runs once when the screen is pushed.
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep on the stack.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackgroundReceiver is implemented by screens that must still see some
// messages while covered by another screen, typically the results of
// work they started. Accepted messages go to the receiver instead of the
// active screen.
type BackgroundReceiver interface {
	AcceptsInBackground(msg tea.Msg) bool
}
