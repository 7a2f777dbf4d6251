package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cropyield/internal/form"
	"github.com/abhisek/cropyield/internal/logging"
)

// fakeService is a stand-in for the prediction service.
type fakeService struct {
	status      int
	body        string
	header      http.Header
	gotBody     string
	gotType     string
	gotMethod   string
	requestSeen int
}

func (f *fakeService) handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/predict", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		f.gotBody = string(b)
		f.gotType = req.Header.Get("Content-Type")
		f.gotMethod = req.Method
		f.requestSeen++
		for k, vs := range f.header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	})
	return r
}

func newFakeServer(t *testing.T, f *fakeService) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/predict", WithLogger(logging.Discard()))
}

func referenceRequest() Request {
	fs := form.NewFieldSet()
	fs.UpdateField(form.CropYear, "2020")
	fs.UpdateField(form.Area, "100.5")
	fs.UpdateField(form.Production, "2500")
	fs.UpdateField(form.AnnualRainfall, "800")
	fs.UpdateField(form.Fertilizer, "50")
	fs.UpdateField(form.Pesticide, "5")
	fs.UpdateField(form.Humidity, "60")
	fs.UpdateField(form.AverageTemperature, "25")
	return Request{SubmissionID: "sub-1", Payload: fs.ToPredictionRequest()}
}

func TestHTTPClient_Success(t *testing.T) {
	f := &fakeService{status: http.StatusOK, body: `{"predicted_yield": 3456.789}`}
	c := newFakeServer(t, f)

	resp, err := c.Predict(context.Background(), referenceRequest())
	require.NoError(t, err)
	assert.Equal(t, 3456.789, resp.PredictedYield)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, http.MethodPost, f.gotMethod)
	assert.Equal(t, "application/json", f.gotType)
	assert.Equal(t,
		`{"Crop_Year":2020,"Area":100.5,"Production":2500,"Annual_Rainfall":800,"Fertilizer":50,"Pesticide":5,"HUMPIDITY":60,"AVG_TEMPERATURE":25}`,
		f.gotBody)
}

func TestHTTPClient_ForwardsNaNAsNull(t *testing.T) {
	f := &fakeService{status: http.StatusOK, body: `{"predicted_yield": 1}`}
	c := newFakeServer(t, f)

	req := referenceRequest()
	fs := form.NewFieldSet()
	req.Payload = fs.ToPredictionRequest()

	_, err := c.Predict(context.Background(), req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.gotBody), &decoded))
	assert.Len(t, decoded, 8)
	for k, v := range decoded {
		assert.Nil(t, v, "key %s", k)
	}
}

func TestHTTPClient_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"yield": 12}`},
		{"string value", `{"predicted_yield": "12"}`},
		{"not json", `<html>oops</html>`},
		{"array", `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeServer(t, &fakeService{status: http.StatusOK, body: tt.body})

			resp, err := c.Predict(context.Background(), referenceRequest())
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			require.NotNil(t, resp)
			assert.Equal(t, tt.body, string(resp.Body))
		})
	}
}

func TestHTTPClient_StatusErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		c := newFakeServer(t, &fakeService{status: http.StatusInternalServerError, body: `{}`})
		_, err := c.Predict(context.Background(), referenceRequest())
		var unavail *ErrServiceUnavailable
		require.ErrorAs(t, err, &unavail)
		assert.Equal(t, http.StatusInternalServerError, unavail.StatusCode)
	})

	t.Run("rate limit", func(t *testing.T) {
		c := newFakeServer(t, &fakeService{
			status: http.StatusTooManyRequests,
			header: http.Header{"Retry-After": []string{"3"}},
		})
		_, err := c.Predict(context.Background(), referenceRequest())
		var rl *ErrRateLimit
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 3*time.Second, rl.RetryAfter)
	})

	t.Run("client error", func(t *testing.T) {
		c := newFakeServer(t, &fakeService{status: http.StatusUnprocessableEntity, body: `{"detail":"bad input"}`})
		_, err := c.Predict(context.Background(), referenceRequest())
		var st *ErrServiceStatus
		require.ErrorAs(t, err, &st)
		assert.Equal(t, http.StatusUnprocessableEntity, st.StatusCode)
		assert.Contains(t, st.Error(), "bad input")
	})
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/predict"
	srv.Close()

	c := NewHTTPClient(url, WithLogger(logging.Discard()))
	resp, err := c.Predict(context.Background(), referenceRequest())
	assert.Nil(t, resp)
	var unavail *ErrServiceUnavailable
	require.ErrorAs(t, err, &unavail)
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	c := newFakeServer(t, &fakeService{status: http.StatusOK, body: `{"predicted_yield": 1}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Predict(ctx, referenceRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseRetryAfter("2"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1"))
}
