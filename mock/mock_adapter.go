// Package mock provides a scripted Transport for tests and examples.
package mock

import (
	"context"
	"strconv"
	"sync"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
)

const (
	MockDefaultMaxRequests = 100
	MockDefaultWindowSecs  = 60
	MockDefaultRetrySecs   = 30
)

// Transport answers requests from a queue of scripted responses. When the
// queue is empty it synthesizes platform-style responses: a 200 with the
// rate-limit headers, or a platform 429 once RequestsUntilRateLimit is passed.
type Transport struct {
	RequestsUntilRateLimit int  // How many requests until we hit a limit
	ShouldReturn429Always  bool // If true, always return 429

	MaxRequests int
	WindowSecs  int64
	RetrySecs   int

	mu                  sync.Mutex
	queue               []scripted
	requests            []*shapewaysbridge.NormalizedRequest
	currentRequestCount int
}

type scripted struct {
	resp *shapewaysbridge.NormalizedResponse
	err  error
}

var _ shapewaysbridge.Transport = (*Transport)(nil)

func (m *Transport) SetRateLimitDefaults(maxRequests int, windowSecs int64) {
	if maxRequests == 0 {
		maxRequests = MockDefaultMaxRequests
	}
	if windowSecs == 0 {
		windowSecs = MockDefaultWindowSecs
	}
	m.mu.Lock()
	m.MaxRequests = maxRequests
	m.WindowSecs = windowSecs
	m.mu.Unlock()
}

// Enqueue scripts the next response.
func (m *Transport) Enqueue(resp *shapewaysbridge.NormalizedResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scripted{resp: resp})
}

// EnqueueError scripts a transport failure for the next request.
func (m *Transport) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scripted{err: err})
}

// Requests returns the requests seen so far.
func (m *Transport) Requests() []*shapewaysbridge.NormalizedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*shapewaysbridge.NormalizedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (m *Transport) LastRequest() *shapewaysbridge.NormalizedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *Transport) ExecuteRequest(ctx context.Context, req *shapewaysbridge.NormalizedRequest) (*shapewaysbridge.NormalizedResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	m.currentRequestCount++

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next.resp, next.err
	}

	retry := m.RetrySecs
	if retry == 0 {
		retry = MockDefaultRetrySecs
	}

	if m.ShouldReturn429Always || (m.RequestsUntilRateLimit > 0 && m.currentRequestCount > m.RequestsUntilRateLimit) {
		return &shapewaysbridge.NormalizedResponse{
			StatusCode: 429,
			Headers:    map[string]string{},
			Data:       []byte(`{"result":"failure","rateLimit":{"retryInSeconds":` + strconv.Itoa(retry) + `}}`),
		}, nil
	}

	maxRequests := m.MaxRequests
	if maxRequests == 0 {
		maxRequests = MockDefaultMaxRequests
	}
	window := m.WindowSecs
	if window == 0 {
		window = MockDefaultWindowSecs
	}
	remaining := maxRequests - m.currentRequestCount
	if remaining < 0 {
		remaining = 0
	}

	return &shapewaysbridge.NormalizedResponse{
		StatusCode: 200,
		Headers:    SuccessHeaders(maxRequests, remaining, retry, int(window)),
		Data:       []byte(`{"result":"success"}`),
	}, nil
}

// SuccessHeaders builds the rate-limit headers the platform sends on a 200.
func SuccessHeaders(limit, remaining, retrySecs, windowSecs int) map[string]string {
	return map[string]string{
		shapewaysbridge.HeaderRateLimitLimit:     strconv.Itoa(limit),
		shapewaysbridge.HeaderRateLimitRemaining: strconv.Itoa(remaining),
		shapewaysbridge.HeaderRateLimitRetry:     strconv.Itoa(retrySecs),
		shapewaysbridge.HeaderRateLimitWindow:    strconv.Itoa(windowSecs),
	}
}

// Success builds a 200 response with body and default rate-limit headers.
func Success(body string) *shapewaysbridge.NormalizedResponse {
	return &shapewaysbridge.NormalizedResponse{
		StatusCode: 200,
		Headers:    SuccessHeaders(MockDefaultMaxRequests, MockDefaultMaxRequests-1, MockDefaultRetrySecs, MockDefaultWindowSecs),
		Data:       []byte(body),
	}
}
