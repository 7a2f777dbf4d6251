// Package submission owns the lifecycle of a prediction submission: it
// issues requests, tracks pending work and reconciles responses into the
// result the form displays.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/cropyield/internal/form"
	"github.com/abhisek/cropyield/internal/predict"
)

// Ticket identifies one issued submission.
type Ticket struct {
	Seq          uint64
	SubmissionID string
	Request      form.PredictionRequest
}

// Outcome is the result of executing a Ticket.
type Outcome struct {
	Seq          uint64
	SubmissionID string
	Response     *predict.Response
	Err          error
}

// Option configures a Controller.
type Option func(*Controller)

// WithStrict makes Begin validate requests before issuing them.
func WithStrict(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

// WithTimeout bounds each Fetch. Zero means no bound beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller drives submissions against a prediction client. Begin and
// Resolve mutate state; Fetch only reads fields fixed at construction, so
// it can run on any goroutine.
type Controller struct {
	client  predict.Client
	strict  bool
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates a Controller in the Idle state.
func New(client predict.Client, opts ...Option) *Controller {
	c := &Controller{client: client}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Strict reports whether requests are validated before sending.
func (c *Controller) Strict() bool { return c.strict }

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin issues a new submission and moves to Pending. A submission still
// in flight is not cancelled; its outcome becomes stale.
//
// In strict mode an invalid request moves the controller to Failed and
// returns the *form.ValidationError without issuing anything. The
// sequence still advances so older responses cannot replace the failure.
func (c *Controller) Begin(req form.PredictionRequest) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Seq++
	if c.strict {
		if err := req.Validate(); err != nil {
			c.state.Status = StatusFailed
			c.state.Err = err
			c.logger.Info("submission rejected", "seq", c.state.Seq, "err", err)
			return Ticket{}, err
		}
	}

	t := Ticket{
		Seq:          c.state.Seq,
		SubmissionID: uuid.NewString(),
		Request:      req,
	}
	c.state.Status = StatusPending
	c.state.Err = nil
	c.state.InFlight++
	c.logger.Debug("submission issued", "seq", t.Seq, "submission", t.SubmissionID)
	return t, nil
}

// Fetch performs the round trip for t. It never panics; a panicking client
// yields a failed Outcome.
func (c *Controller) Fetch(ctx context.Context, t Ticket) (out Outcome) {
	out = Outcome{Seq: t.Seq, SubmissionID: t.SubmissionID}

	defer func() {
		if r := recover(); r != nil {
			out.Response = nil
			out.Err = fmt.Errorf("prediction client panicked: %v", r)
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Predict(ctx, predict.Request{
		SubmissionID: t.SubmissionID,
		Payload:      t.Request,
	})
	switch {
	case err != nil:
		out.Err = err
	case resp == nil:
		out.Err = errors.New("prediction client returned no response")
	default:
		out.Response = resp
	}
	return out
}

// Resolve applies out if it belongs to the latest submission and reports
// whether it was applied. Stale outcomes only reduce the in-flight count.
func (c *Controller) Resolve(out Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.InFlight > 0 {
		c.state.InFlight--
	}

	if out.Seq != c.state.Seq {
		c.logger.Debug("stale outcome discarded", "seq", out.Seq, "latest", c.state.Seq)
		return false
	}

	if out.Err != nil {
		c.state.Status = StatusFailed
		c.state.Err = out.Err
		c.logger.Warn("submission failed", "seq", out.Seq, "submission", out.SubmissionID, "err", out.Err)
		return true
	}

	c.state.Status = StatusSucceeded
	c.state.Err = nil
	c.state.Result = out.Response.PredictedYield
	c.state.HasResult = true
	c.logger.Info("submission succeeded",
		"seq", out.Seq,
		"submission", out.SubmissionID,
		"predicted_yield", out.Response.PredictedYield,
	)
	return true
}

// Submit runs Begin, Fetch and Resolve in sequence and returns the
// resulting state along with the submission's error, if any.
func (c *Controller) Submit(ctx context.Context, req form.PredictionRequest) (State, error) {
	t, err := c.Begin(req)
	if err != nil {
		return c.State(), err
	}
	out := c.Fetch(ctx, t)
	c.Resolve(out)
	return c.State(), out.Err
}
