package predict

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryClient re-sends a prediction request when the service is briefly
// unreachable, overloaded or rate limiting. Every attempt carries the same
// submission ID so history groups them.
type RetryClient struct {
	inner  Client
	config RetryConfig
	logger *slog.Logger
}

// WithRetry wraps c so transient failures are retried up to
// cfg.MaxAttempts times. A nil logger uses slog.Default().
func WithRetry(c Client, cfg RetryConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryClient{inner: c, config: cfg, logger: logger}
}

func (r *RetryClient) Predict(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Predict(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts || !transient(err) {
			return resp, err
		}

		wait := r.delay(attempt, err)
		r.logger.Warn("prediction attempt failed, retrying",
			"submission", req.SubmissionID,
			"attempt", attempt,
			"of", attempts,
			"wait", wait,
			"err", err,
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryClient) Endpoint() string {
	return r.inner.Endpoint()
}

// transient reports whether asking the service again may give a different
// answer. A response that arrived, however malformed, is final.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		invalid  *ErrInvalidResponse
		rejected *ErrServiceStatus
	)
	if errors.As(err, &invalid) || errors.As(err, &rejected) {
		return false
	}
	// Rate limits, outages and bare transport errors.
	return true
}

// delay is the wait before the attempt after the n-th failure. A
// Retry-After from the service wins over the backoff schedule.
func (r *RetryClient) delay(n int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(n-1))
	base = math.Min(base, float64(r.config.MaxWait))

	// ±20% jitter.
	wait := base * (0.8 + 0.4*rand.Float64())
	return time.Duration(math.Max(wait, 0))
}
