package shapewaysbridge_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
	"github.com/opengovern/shapeways-bridge/mock"
)

func newMockClient(t *testing.T, opts ...shapewaysbridge.Option) (*shapewaysbridge.Client, *mock.Transport) {
	t.Helper()
	tr := &mock.Transport{}
	var logs bytes.Buffer
	base := []shapewaysbridge.Option{
		shapewaysbridge.WithTransport(tr),
		shapewaysbridge.WithBaseURL("https://api.test"),
		shapewaysbridge.WithLogger(log.New(&logs, "", 0)),
	}
	c := shapewaysbridge.NewClient(append(base, opts...)...)
	return c, tr
}

func TestDispatch_NoTokenIsUsageError(t *testing.T) {
	methods := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			c, tr := newMockClient(t)

			res, err := c.Dispatch(context.Background(), method, "/materials/v1", map[string]any{"a": 1}, nil)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, shapewaysbridge.ErrNoAccessToken)
			assert.Empty(t, tr.Requests(), "no request may reach the transport")
		})
	}
}

func TestDispatch_AttachesBearerToken(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	tr.Enqueue(mock.Success(`{"result":"success"}`))

	res, err := c.Dispatch(context.Background(), http.MethodGet, "/materials/v1", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Success())

	req := tr.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "Bearer abc", req.Headers["Authorization"])
	assert.Equal(t, "https://api.test/materials/v1", req.Endpoint)
	assert.Nil(t, req.Body)
	_, hasContentType := req.Headers["Content-Type"]
	assert.False(t, hasContentType)
}

func TestDispatch_EncodesJSONBody(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))

	_, err := c.Dispatch(context.Background(), http.MethodPost, "/orders/cart/v1", map[string]any{"modelId": 7}, nil)
	require.NoError(t, err)

	req := tr.LastRequest()
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.JSONEq(t, `{"modelId":7}`, string(req.Body))
}

func TestDispatch_RawBodyPassesThrough(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))

	_, err := c.Dispatch(context.Background(), http.MethodPost, "/price/v1", []byte(`{"volume":1}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"volume":1}`, string(tr.LastRequest().Body))
}

func TestDispatch_EdgeRateLimit(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	tr.Enqueue(&shapewaysbridge.NormalizedResponse{
		StatusCode: http.StatusTooManyRequests,
		Headers:    map[string]string{"retry-after": "30"},
	})

	res, err := c.Dispatch(context.Background(), http.MethodGet, "/materials/v1", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.RateLimited())
	assert.True(t, res.RateLimit.IsRateLimited)
	assert.Equal(t, shapewaysbridge.AuthorityEdge, res.RateLimit.Authority)
	require.NotNil(t, res.RateLimit.RetryAfterSeconds)
	assert.Equal(t, 30.0, *res.RateLimit.RetryAfterSeconds)

	assert.False(t, c.CanProceed())
	delay := c.DelayBeforeNextRequest()
	assert.Greater(t, delay, 25*time.Second)
	assert.LessOrEqual(t, delay, 30*time.Second)
}

func TestDispatch_PlatformRateLimit(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	tr.Enqueue(&shapewaysbridge.NormalizedResponse{
		StatusCode: http.StatusTooManyRequests,
		Data:       []byte(`{"rateLimit":{"retryInSeconds":15}}`),
	})

	res, err := c.Dispatch(context.Background(), http.MethodGet, "/materials/v1", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.RateLimit.IsRateLimited)
	assert.Equal(t, shapewaysbridge.AuthorityPlatform, res.RateLimit.Authority)
	require.NotNil(t, res.RateLimit.RetryAfterSeconds)
	assert.Equal(t, 15.0, *res.RateLimit.RetryAfterSeconds)

	info := c.GetRateLimitInfo()
	require.NotNil(t, info)
	assert.True(t, info.IsRateLimited)
}

func TestDispatch_TransportErrorPropagates(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	boom := errors.New("connection refused")
	tr.EnqueueError(boom)

	res, err := c.Dispatch(context.Background(), http.MethodGet, "/materials/v1", nil, nil)
	assert.Nil(t, res)
	assert.Same(t, boom, err)
}

func TestDispatch_ProtocolViolation(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	tr.Enqueue(&shapewaysbridge.NormalizedResponse{StatusCode: http.StatusOK, Data: []byte(`{"result":"success"}`)})

	res, err := c.Dispatch(context.Background(), http.MethodGet, "/materials/v1", nil, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, shapewaysbridge.ErrProtocolViolation)
}

func TestDispatch_RemoteFailureIsData(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	tr.Enqueue(&shapewaysbridge.NormalizedResponse{StatusCode: http.StatusNotFound, Data: []byte(`{"result":"failure","reason":"no such model"}`)})

	res, err := c.Dispatch(context.Background(), http.MethodGet, "/model/9/v1", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Success())
	require.NotNil(t, res.ErrorDetail)
	assert.Equal(t, "no such model", res.ErrorDetail.Body["reason"])
	assert.True(t, c.CanProceed())
}

func TestDispatch_TracksQuotaAcrossCalls(t *testing.T) {
	c, tr := newMockClient(t, shapewaysbridge.WithAccessToken("abc"))
	tr.RequestsUntilRateLimit = 2

	for i := 0; i < 2; i++ {
		res, err := c.GetMaterials(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Success())
	}
	assert.True(t, c.CanProceed())

	res, err := c.GetMaterials(context.Background())
	require.NoError(t, err)
	assert.True(t, res.RateLimited())
	require.NotNil(t, res.RateLimit.RetryAfterSeconds)
	assert.Equal(t, float64(mock.MockDefaultRetrySecs), *res.RateLimit.RetryAfterSeconds)
	assert.False(t, c.CanProceed())
	assert.Len(t, tr.Requests(), 3, "rate limiting must not trigger a retry")
}

func TestDispatch_PacingHonorsContext(t *testing.T) {
	c, _ := newMockClient(t,
		shapewaysbridge.WithAccessToken("abc"),
		shapewaysbridge.WithRequestRate(0.001, 1),
	)

	_, err := c.GetMaterials(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.GetMaterials(ctx)
	assert.Error(t, err)
}

func TestDispatch_DebugLogging(t *testing.T) {
	tr := &mock.Transport{}
	var logs bytes.Buffer
	c := shapewaysbridge.NewClient(
		shapewaysbridge.WithTransport(tr),
		shapewaysbridge.WithLogger(log.New(&logs, "", 0)),
		shapewaysbridge.WithAccessToken("abc"),
	)

	_, err := c.GetMaterials(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs.String())

	c.SetDebug(true)
	_, err = c.GetMaterials(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "[DEBUG] GET https://api.shapeways.com/materials/v1")
}
