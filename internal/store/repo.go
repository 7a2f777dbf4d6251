package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	// FailedOnly keeps only unsuccessful round trips.
	FailedOnly bool
}

// PredictionEventData captures one round trip to the prediction service.
type PredictionEventData struct {
	SubmissionID string
	Endpoint     string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	// PredictedYield is nil unless the response carried a valid prediction.
	PredictedYield *float64
	LatencyMs      int64
	Success        bool
	ErrorMessage   string
}

// PredictionEventRecord is a stored prediction event.
type PredictionEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	PredictionEventData
}

// PredictionRepo provides append and query access to prediction events.
type PredictionRepo interface {
	// AppendPrediction records a prediction round trip.
	AppendPrediction(ctx context.Context, data PredictionEventData) error

	// QueryPredictions returns events newest first.
	QueryPredictions(ctx context.Context, opts QueryOpts) ([]PredictionEventRecord, error)

	// GetPrediction returns the event with the given ID, or nil if none exists.
	GetPrediction(ctx context.Context, id int) (*PredictionEventRecord, error)
}
