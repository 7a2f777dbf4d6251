package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient creates a client posting to endpoint.
func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClient) Predict(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("predict request", "submission", req.SubmissionID, "endpoint", c.endpoint, "body", string(body))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("post %s: %w", c.endpoint, ctx.Err())
		}
		return nil, &ErrServiceUnavailable{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       raw,
		Latency:    time.Since(start),
	}
	if err != nil {
		return resp, &ErrServiceUnavailable{StatusCode: httpResp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("predict response", "submission", req.SubmissionID, "status", httpResp.StatusCode, "latency", resp.Latency)

	if err := statusError(httpResp, raw); err != nil {
		return resp, err
	}

	resp.PredictedYield, err = decodePrediction(raw)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

// decodePrediction checks a 2xx body against the response schema and
// extracts predicted_yield.
func decodePrediction(raw []byte) (float64, error) {
	if err := validateResponse(raw); err != nil {
		return 0, err
	}
	var parsed struct {
		PredictedYield float64 `json:"predicted_yield"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, &ErrInvalidResponse{Content: raw, Err: err}
	}
	return parsed.PredictedYield, nil
}

// statusError maps a non-2xx status to a typed error.
func statusError(resp *http.Response, body []byte) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("HTTP %d", code),
		}
	case code >= 500:
		return &ErrServiceUnavailable{StatusCode: code}
	}
	return &ErrServiceStatus{StatusCode: code, Body: strings.TrimSpace(string(body))}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
