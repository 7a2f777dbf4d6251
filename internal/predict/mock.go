package predict

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// MockEndpoint is the endpoint reported by MockClient.
const MockEndpoint = "mock://predict"

// MockResponse scripts one answer from the fake prediction service.
//
// Err short-circuits everything else. Otherwise the reply is Body with
// StatusCode (200 when zero); an empty Body is synthesized from
// PredictedYield. Bodies go through the same status mapping and schema
// check as real responses.
type MockResponse struct {
	PredictedYield float64
	Body           string
	StatusCode     int
	Err            error
}

// MockClient stands in for the prediction service. It answers with
// scripted responses in order and records every request it was sent.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockClient creates a MockClient with the given scripted responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Predict pops the next scripted response. With nothing scripted the
// service looks unreachable.
func (m *MockClient) Predict(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrServiceUnavailable{Err: fmt.Errorf("no scripted response")}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return next.reply()
}

// reply renders the scripted answer as the HTTP client would have.
func (r MockResponse) reply() (*Response, error) {
	code := r.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	body := r.Body
	if body == "" {
		body = `{"predicted_yield":` + strconv.FormatFloat(r.PredictedYield, 'g', -1, 64) + `}`
	}
	resp := &Response{StatusCode: code, Body: []byte(body)}

	if err := statusError(&http.Response{StatusCode: code, Header: http.Header{}}, resp.Body); err != nil {
		return resp, err
	}
	yield, err := decodePrediction(resp.Body)
	if err != nil {
		return resp, err
	}
	resp.PredictedYield = yield
	return resp, nil
}

// Endpoint returns MockEndpoint.
func (m *MockClient) Endpoint() string {
	return MockEndpoint
}

// AddResponse scripts one more response.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of requests received.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Pending returns how many scripted responses are left.
func (m *MockClient) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}
