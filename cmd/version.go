package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/cropyield/internal/predict"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the prediction service in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := predict.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("prediction config: %w", err)
		}
		if e, _ := cmd.Flags().GetString("endpoint"); e != "" {
			cfg.Endpoint = e
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "cropyield", buildVersion())
		fmt.Fprintln(out, "endpoint:", cfg.Endpoint)
		return nil
	},
}

// buildVersion prefers the ldflags value, then the module version that
// go install records.
func buildVersion() string {
	if version != "(devel)" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return version
}
