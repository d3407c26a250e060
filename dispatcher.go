package shapewaysbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Dispatch sends an authenticated request to path (relative to the base URL)
// and returns the normalized result.
//
// body is JSON encoded unless it is nil or already a []byte. Dispatch fails
// with ErrNoAccessToken before any I/O when the client has no token. Transport
// errors are returned as-is; remote failures and rate limiting are reported on
// the Result, not as errors.
func (c *Client) Dispatch(ctx context.Context, method, path string, body any, query url.Values) (*Result, error) {
	token, ok := c.session.AccessToken()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNoAccessToken)
	}

	req := &NormalizedRequest{
		Method:   method,
		Endpoint: c.session.BaseURL() + path,
		Query:    query,
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
			"Accept":        "application/json",
		},
	}
	if body != nil {
		data, err := encodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: marshal body: %w", method, path, err)
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	c.debugf("%s %s\n", method, req.Endpoint)
	start := c.now()
	resp, err := c.transport.ExecuteRequest(ctx, req)
	if err != nil {
		c.metrics.observeTransportError(method)
		c.debugf("%s %s: transport error: %v\n", method, req.Endpoint, err)
		return nil, err
	}

	res, err := Normalize(resp)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.rateLimiter.UpdateRateLimits(res.RateLimit, start)
	c.metrics.observeResult(method, res, c.now().Sub(start))
	if res.RateLimited() {
		c.debugf("%s %s: rate limited by %s\n", method, path, res.RateLimit.Authority)
	} else {
		c.debugf("%s %s: status %d, outcome %s\n", method, path, res.StatusCode, res.Outcome)
	}
	return res, nil
}

func encodeBody(body any) ([]byte, error) {
	if b, ok := body.([]byte); ok {
		return b, nil
	}
	return json.Marshal(body)
}
