package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/cropyield/internal/store"
)

const defaultEnvFile = ".env"

var rootCmd = &cobra.Command{
	Use:   "cropyield",
	Short: "Crop yield prediction client",
	Long: "cropyield collects eight agricultural indicators, sends them to a yield " +
		"prediction service and shows the estimate.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides CROPYIELD_DB env var)")
	pf.String("endpoint", "", "Prediction service URL (overrides CROPYIELD_ENDPOINT env var)")
	pf.String("env-file", defaultEnvFile, "Environment file loaded before reading configuration")
	pf.Bool("strict", false, "Validate inputs before sending (overrides CROPYIELD_STRICT env var)")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvFile loads the --env-file into the process environment. Variables
// already set win. A missing default file is not an error.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CROPYIELD_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
