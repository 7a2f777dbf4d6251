package predict

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abhisek/cropyield/internal/store"
)

// NewClient creates a Client from configuration.
// It returns the HTTP client wrapped with retry and, when repo is non-nil,
// history middleware.
func NewClient(cfg Config, repo store.PredictionRepo, logger *slog.Logger) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("prediction client config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var c Client = NewHTTPClient(cfg.Endpoint,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithLogger(logger),
	)

	// Wrap with middleware: caller → retry → history → http, so every
	// attempt is recorded.
	if repo != nil {
		c = WithHistory(c, repo, logger)
	}
	if cfg.Retry.MaxAttempts > 1 {
		c = WithRetry(c, cfg.Retry, logger)
	}

	return c, nil
}
