package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/cropyield/internal/logging"
	"github.com/abhisek/cropyield/internal/predict"
	"github.com/abhisek/cropyield/internal/store"
	"github.com/abhisek/cropyield/internal/submission"
)

// deps bundles what the prediction commands share.
type deps struct {
	store    *store.Store
	ctrl     *submission.Controller
	config   predict.Config
	logger   *slog.Logger
	closeLog func() error
}

// buildDeps sets up logging, opens the store and wires the prediction
// client into a controller. Flags override environment.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	logger, closeLog, err := logging.Setup()
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	d := &deps{logger: logger, closeLog: closeLog}

	cfg, err := predict.ConfigFromEnv()
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("prediction config: %w", err)
	}
	if e, _ := cmd.Flags().GetString("endpoint"); e != "" {
		cfg.Endpoint = e
	}
	d.config = cfg

	strict, err := resolveStrict(cmd)
	if err != nil {
		d.Close()
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	d.store, err = store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	client, err := predict.NewClient(cfg, d.store.PredictionRepo(), logger)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.ctrl = submission.New(client,
		submission.WithStrict(strict),
		submission.WithTimeout(cfg.Timeout),
		submission.WithLogger(logger),
	)

	logger.Debug("dependencies ready", "db", dbPath, "endpoint", cfg.Endpoint, "strict", strict)
	return d, nil
}

// resolveStrict reads CROPYIELD_STRICT, which --strict overrides when set.
func resolveStrict(cmd *cobra.Command) (bool, error) {
	strict, err := submission.StrictFromEnv()
	if err != nil {
		return false, err
	}
	if cmd.Flags().Changed("strict") {
		strict, _ = cmd.Flags().GetBool("strict")
	}
	return strict, nil
}

// Close releases the store and the log file.
func (d *deps) Close() error {
	var errs []error
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	if d.closeLog != nil {
		errs = append(errs, d.closeLog())
	}
	return errors.Join(errs...)
}
