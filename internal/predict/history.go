package predict

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/abhisek/cropyield/internal/store"
)

// HistoryClient is a decorator that records every round trip as a
// prediction event.
type HistoryClient struct {
	inner  Client
	repo   store.PredictionRepo
	logger *slog.Logger
}

// WithHistory wraps a Client with event recording.
func WithHistory(c Client, repo store.PredictionRepo, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryClient{inner: c, repo: repo, logger: logger}
}

func (h *HistoryClient) Predict(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := h.inner.Predict(ctx, req)

	data := store.PredictionEventData{
		SubmissionID: req.SubmissionID,
		Endpoint:     h.inner.Endpoint(),
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
	}
	if body, mErr := json.Marshal(req.Payload); mErr == nil {
		data.RequestBody = string(body)
	}
	if resp != nil {
		data.StatusCode = resp.StatusCode
		data.ResponseBody = string(resp.Body)
		if err == nil {
			v := resp.PredictedYield
			data.PredictedYield = &v
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Record the event but don't fail the request if recording fails.
	if logErr := h.repo.AppendPrediction(context.WithoutCancel(ctx), data); logErr != nil {
		h.logger.Warn("failed to record prediction event", "submission", req.SubmissionID, "err", logErr)
	}

	return resp, err
}

func (h *HistoryClient) Endpoint() string {
	return h.inner.Endpoint()
}
