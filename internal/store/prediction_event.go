package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var predictionEventColumnNames = []string{
	"id", "sequence", "timestamp", "submission_id", "endpoint",
	"request_body", "response_body", "status_code", "predicted_yield",
	"latency_ms", "success", "error_message",
}

// predictionRepo implements PredictionRepo on top of ent's SQL builder and
// the global sequence counter.
type predictionRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *predictionRepo) AppendPrediction(ctx context.Context, data PredictionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var predicted sql.NullFloat64
	if data.PredictedYield != nil {
		predicted = sql.NullFloat64{Float64: *data.PredictedYield, Valid: true}
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(predictionEventsTableName).
		Columns(predictionEventColumnNames[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.SubmissionID,
			data.Endpoint,
			data.RequestBody,
			data.ResponseBody,
			data.StatusCode,
			predicted,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save prediction event: %w", err)
	}
	return nil
}

func (r *predictionRepo) QueryPredictions(ctx context.Context, opts QueryOpts) ([]PredictionEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(predictionEventColumnNames...).
		From(entsql.Table(predictionEventsTableName)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.FailedOnly {
		sel.Where(entsql.EQ("success", false))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	return r.query(ctx, sel)
}

func (r *predictionRepo) GetPrediction(ctx context.Context, id int) (*PredictionEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(predictionEventColumnNames...).
		From(entsql.Table(predictionEventsTableName)).
		Where(entsql.EQ("id", id)).
		Limit(1)

	records, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *predictionRepo) query(ctx context.Context, sel *entsql.Selector) ([]PredictionEventRecord, error) {
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query prediction events: %w", err)
	}
	defer rows.Close()

	var records []PredictionEventRecord
	for rows.Next() {
		var (
			rec       PredictionEventRecord
			predicted sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Sequence,
			&rec.Timestamp,
			&rec.SubmissionID,
			&rec.Endpoint,
			&rec.RequestBody,
			&rec.ResponseBody,
			&rec.StatusCode,
			&predicted,
			&rec.LatencyMs,
			&rec.Success,
			&rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan prediction event: %w", err)
		}
		if predicted.Valid {
			v := predicted.Float64
			rec.PredictedYield = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction events: %w", err)
	}
	return records, nil
}
