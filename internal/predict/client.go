package predict

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abhisek/cropyield/internal/form"
)

// Client is the core abstraction for talking to the prediction service.
type Client interface {
	// Predict sends one payload and returns the parsed prediction.
	// On failure the returned Response, when non-nil, carries whatever
	// the service sent back (status code, raw body) for diagnostics.
	Predict(ctx context.Context, req Request) (*Response, error)

	// Endpoint returns the URL requests are sent to.
	Endpoint() string
}

// Request describes one submission.
type Request struct {
	// SubmissionID groups the attempts of a single submission.
	SubmissionID string

	// Payload is the coerced form.
	Payload form.PredictionRequest
}

// Response holds the service's answer.
type Response struct {
	// PredictedYield is the value of the predicted_yield key.
	PredictedYield float64

	// StatusCode is the HTTP status, 0 if no response was received.
	StatusCode int

	// Body is the raw response body.
	Body json.RawMessage

	// Latency is the wall-clock time of the round trip.
	Latency time.Duration
}
