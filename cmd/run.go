package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/cropyield/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Controller: d.ctrl,
		History:    d.store.PredictionRepo(),
		Endpoint:   d.config.Endpoint,
		Logger:     d.logger,
	})
}
