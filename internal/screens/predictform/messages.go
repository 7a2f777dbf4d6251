package predictform

import "github.com/abhisek/cropyield/internal/submission"

// ResolvedMsg carries the outcome of a submission back to the update loop.
// It belongs to the form screen even when another screen is on top.
type ResolvedMsg struct {
	Outcome submission.Outcome
}
