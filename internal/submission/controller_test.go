package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cropyield/internal/form"
	"github.com/abhisek/cropyield/internal/logging"
	"github.com/abhisek/cropyield/internal/predict"
)

func referenceRequest() form.PredictionRequest {
	fs := form.NewFieldSet()
	fs.UpdateField(form.CropYear, "2020")
	fs.UpdateField(form.Area, "100.5")
	fs.UpdateField(form.Production, "2500")
	fs.UpdateField(form.AnnualRainfall, "800")
	fs.UpdateField(form.Fertilizer, "50")
	fs.UpdateField(form.Pesticide, "5")
	fs.UpdateField(form.Humidity, "60")
	fs.UpdateField(form.AverageTemperature, "25")
	return fs.ToPredictionRequest()
}

func newController(client predict.Client, opts ...Option) *Controller {
	return New(client, append([]Option{WithLogger(logging.Discard())}, opts...)...)
}

// panicClient panics on every call.
type panicClient struct{}

func (panicClient) Predict(context.Context, predict.Request) (*predict.Response, error) {
	panic("boom")
}

func (panicClient) Endpoint() string { return "panic://" }

// nilClient returns neither a response nor an error.
type nilClient struct{}

func (nilClient) Predict(context.Context, predict.Request) (*predict.Response, error) {
	return nil, nil
}

func (nilClient) Endpoint() string { return "nil://" }

// deadlineClient blocks until its context is done.
type deadlineClient struct{}

func (deadlineClient) Predict(ctx context.Context, _ predict.Request) (*predict.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (deadlineClient) Endpoint() string { return "slow://" }

func TestNewControllerIsIdle(t *testing.T) {
	c := newController(predict.NewMockClient())
	st := c.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.False(t, st.HasResult)
	assert.Equal(t, "", st.Display())
	assert.Zero(t, st.InFlight)
}

func TestSubmit_Success(t *testing.T) {
	mock := predict.NewMockClient(predict.MockResponse{PredictedYield: 3456.789})
	c := newController(mock)

	st, err := c.Submit(context.Background(), referenceRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.True(t, st.HasResult)
	assert.Equal(t, 3456.789, st.Result)
	assert.Equal(t, "3456.79", st.Display())
	assert.Zero(t, st.InFlight)

	require.Equal(t, 1, mock.CallCount())
	assert.NotEmpty(t, mock.Calls[0].SubmissionID)
	assert.Equal(t, referenceRequest(), mock.Calls[0].Payload)
}

func TestBeginEntersPending(t *testing.T) {
	c := newController(predict.NewMockClient())

	tk, err := c.Begin(referenceRequest())
	require.NoError(t, err)
	st := c.State()
	assert.Equal(t, StatusPending, st.Status)
	assert.Equal(t, tk.Seq, st.Seq)
	assert.Equal(t, 1, st.InFlight)

	tk2, err := c.Begin(referenceRequest())
	require.NoError(t, err)
	assert.Greater(t, tk2.Seq, tk.Seq)
	assert.NotEqual(t, tk.SubmissionID, tk2.SubmissionID)
	assert.Equal(t, 2, c.State().InFlight)
}

func TestFailureKeepsPreviousResult(t *testing.T) {
	mock := predict.NewMockClient(
		predict.MockResponse{PredictedYield: 10},
		predict.MockResponse{Err: &predict.ErrInvalidResponse{Err: errors.New("missing predicted_yield")}},
		predict.MockResponse{Err: &predict.ErrServiceUnavailable{Err: errors.New("connection refused")}},
	)
	c := newController(mock)

	_, err := c.Submit(context.Background(), referenceRequest())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		st, err := c.Submit(context.Background(), referenceRequest())
		require.Error(t, err)
		assert.Equal(t, StatusFailed, st.Status)
		assert.Error(t, st.Err)
		assert.True(t, st.HasResult)
		assert.Equal(t, 10.0, st.Result)
	}
}

func TestFailureBeforeAnySuccess(t *testing.T) {
	c := newController(predict.NewMockClient(predict.MockResponse{Err: &predict.ErrServiceStatus{StatusCode: 500}}))

	st, err := c.Submit(context.Background(), referenceRequest())
	var status *predict.ErrServiceStatus
	require.ErrorAs(t, err, &status)
	assert.Equal(t, StatusFailed, st.Status)
	assert.False(t, st.HasResult)
	assert.Equal(t, "", st.Display())
}

func TestStaleOutcomeDiscarded(t *testing.T) {
	mock := predict.NewMockClient(
		predict.MockResponse{PredictedYield: 1},
		predict.MockResponse{PredictedYield: 2},
	)
	c := newController(mock)
	ctx := context.Background()

	first, err := c.Begin(referenceRequest())
	require.NoError(t, err)
	second, err := c.Begin(referenceRequest())
	require.NoError(t, err)

	outFirst := c.Fetch(ctx, first)
	outSecond := c.Fetch(ctx, second)

	// Newer response lands first, older one arrives late.
	assert.True(t, c.Resolve(outSecond))
	assert.False(t, c.Resolve(outFirst))

	st := c.State()
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Equal(t, 2.0, st.Result)
	assert.Zero(t, st.InFlight)
}

func TestStaleFailureDoesNotOverrideSuccess(t *testing.T) {
	c := newController(predict.NewMockClient(predict.MockResponse{PredictedYield: 5}))
	ctx := context.Background()

	old, err := c.Begin(referenceRequest())
	require.NoError(t, err)
	_, err = c.Submit(ctx, referenceRequest())
	require.NoError(t, err)

	applied := c.Resolve(Outcome{Seq: old.Seq, Err: errors.New("late failure")})
	assert.False(t, applied)
	st := c.State()
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Nil(t, st.Err)
	assert.Equal(t, 5.0, st.Result)
}

func TestStrictRejectsInvalidRequest(t *testing.T) {
	mock := predict.NewMockClient(predict.MockResponse{PredictedYield: 1})
	c := newController(mock, WithStrict(true))
	assert.True(t, c.Strict())

	fs := form.NewFieldSet()
	fs.UpdateField(form.CropYear, "2020")
	fs.UpdateField(form.Humidity, "140")

	st, err := c.Submit(context.Background(), fs.ToPredictionRequest())
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(form.Area))
	assert.True(t, verr.Has(form.Humidity))
	assert.False(t, verr.Has(form.CropYear))
	assert.Equal(t, StatusFailed, st.Status)
	assert.Zero(t, st.InFlight)
	assert.Zero(t, mock.CallCount(), "no request should be issued")
}

func TestStrictRejectionStalesInFlight(t *testing.T) {
	c := newController(predict.NewMockClient(predict.MockResponse{PredictedYield: 1}), WithStrict(true))

	tk, err := c.Begin(referenceRequest())
	require.NoError(t, err)

	_, err = c.Begin(form.NewFieldSet().ToPredictionRequest())
	require.Error(t, err)

	assert.False(t, c.Resolve(c.Fetch(context.Background(), tk)))
	assert.Equal(t, StatusFailed, c.State().Status)
}

func TestDefaultModeForwardsNaN(t *testing.T) {
	mock := predict.NewMockClient(predict.MockResponse{PredictedYield: 1})
	c := newController(mock)

	_, err := c.Submit(context.Background(), form.NewFieldSet().ToPredictionRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestFetchRecoversPanic(t *testing.T) {
	c := newController(panicClient{})

	st, err := c.Submit(context.Background(), referenceRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, StatusFailed, st.Status)
}

func TestFetchNilResponse(t *testing.T) {
	c := newController(nilClient{})

	st, err := c.Submit(context.Background(), referenceRequest())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, st.Status)
	assert.False(t, st.HasResult)
}

func TestFetchTimeout(t *testing.T) {
	c := newController(deadlineClient{}, WithTimeout(10*time.Millisecond))

	_, err := c.Submit(context.Background(), referenceRequest())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFormatYield(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3456.789, "3456.79"},
		{0, "0.00"},
		{2.5, "2.50"},
		{-1.234, "-1.23"},
		{1e6, "1000000.00"},
		// Exact binary ties round away from zero.
		{0.125, "0.13"},
		{1000.625, "1000.63"},
		{-1.125, "-1.13"},
		{0.005, "0.01"},
		// 1.005 is stored just below the tie.
		{1.005, "1.00"},
		{-0.001, "-0.00"},
		{0.001, "0.00"},
		{1 << 60, "1152921504606846976.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatYield(tt.in))
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestStrictFromEnv(t *testing.T) {
	t.Setenv("CROPYIELD_STRICT", "")
	v, err := StrictFromEnv()
	require.NoError(t, err)
	assert.False(t, v)

	t.Setenv("CROPYIELD_STRICT", "true")
	v, err = StrictFromEnv()
	require.NoError(t, err)
	assert.True(t, v)

	t.Setenv("CROPYIELD_STRICT", "sometimes")
	_, err = StrictFromEnv()
	assert.Error(t, err)
}
