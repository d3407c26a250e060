// normalizer.go
// -------------
// Turns a raw NormalizedResponse into a Result. Four shapes are handled:
//
// - 200 with "result":"success": a successful call. The platform always sends
//   its rate-limit headers here, so their absence is a protocol violation.
// - 200 with any other (or no) "result": a failed call reported in-band.
// - 429 with a retry-after header: the edge network in front of the API is limiting us.
// - 429 without it: the platform limiter, which puts the retry delay in the body
//   under rateLimit.retryInSeconds instead of a header.
//
// Everything else is a generic failure carrying the body as ErrorDetail.
package shapewaysbridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opengovern/shapeways-bridge/internal"
)

const (
	HeaderRateLimitLimit     = "x-ratelimit-limit"
	HeaderRateLimitRemaining = "x-ratelimit-remaining"
	HeaderRateLimitRetry     = "x-ratelimit-retry-inseconds"
	HeaderRateLimitWindow    = "x-ratelimit-window-inseconds"
	HeaderEdgeRetryAfter     = "retry-after"

	resultField      = "result"
	resultSuccess    = "success"
	rateLimitField   = "rateLimit"
	retryInSecsField = "retryInSeconds"
)

// Normalize converts resp into a Result. The only error it returns is
// ErrProtocolViolation for a 200 response missing its rate-limit headers.
func Normalize(resp *NormalizedResponse) (*Result, error) {
	return normalizeAt(resp, time.Now())
}

func normalizeAt(resp *NormalizedResponse, now time.Time) (*Result, error) {
	res := &Result{
		StatusCode: resp.StatusCode,
		RateLimit: NormalizedRateLimitInfo{
			Authority:     AuthorityPlatform,
			IsRateLimited: false,
		},
	}

	headers := lowerKeys(resp.Headers)

	switch resp.StatusCode {
	case http.StatusOK:
		if err := parseSuccessHeaders(headers, &res.RateLimit); err != nil {
			return nil, err
		}
		body, err := parseBody(resp.Data)
		if err != nil {
			res.Outcome = OutcomeFailure
			res.ErrorDetail = &ErrorDetail{Raw: string(resp.Data)}
			res.Diagnostic = err
			return res, nil
		}
		result, ok := body[resultField]
		if !ok {
			res.Outcome = OutcomeFailure
			res.ErrorDetail = &ErrorDetail{Body: body, Raw: string(resp.Data)}
			res.Diagnostic = fmt.Errorf("%w: %s", ErrFieldAbsent, resultField)
			return res, nil
		}
		if s, _ := result.(string); s == resultSuccess {
			res.Outcome = OutcomeSuccess
			res.Payload = body
			return res, nil
		}
		res.Outcome = OutcomeFailure
		res.ErrorDetail = &ErrorDetail{Body: body, Raw: string(resp.Data)}
		return res, nil

	case http.StatusTooManyRequests:
		res.Outcome = OutcomeRateLimited
		res.RateLimit.IsRateLimited = true
		res.RateLimit.Remaining = intPtr(0)

		if v, ok := headers[HeaderEdgeRetryAfter]; ok {
			res.RateLimit.Authority = AuthorityEdge
			secs, err := internal.ParseRetryAfter(v, now)
			if err != nil {
				res.Diagnostic = fmt.Errorf("%w: %v", ErrMalformedHeader, err)
				return res, nil
			}
			res.RateLimit.RetryAfterSeconds = &secs
			return res, nil
		}

		secs, err := platformRetrySeconds(resp.Data)
		if err != nil {
			res.Diagnostic = err
			return res, nil
		}
		res.RateLimit.RetryAfterSeconds = &secs
		return res, nil

	default:
		res.Outcome = OutcomeFailure
		detail := &ErrorDetail{Raw: string(resp.Data)}
		if body, err := parseBody(resp.Data); err == nil {
			detail.Body = body
		} else {
			res.Diagnostic = err
		}
		res.ErrorDetail = detail
		return res, nil
	}
}

// parseSuccessHeaders fills info from the headers every 200 carries.
func parseSuccessHeaders(h map[string]string, info *NormalizedRateLimitInfo) error {
	remainingRaw, ok := h[HeaderRateLimitRemaining]
	if !ok {
		return fmt.Errorf("%w: 200 response missing %s header", ErrProtocolViolation, HeaderRateLimitRemaining)
	}
	retryRaw, ok := h[HeaderRateLimitRetry]
	if !ok {
		return fmt.Errorf("%w: 200 response missing %s header", ErrProtocolViolation, HeaderRateLimitRetry)
	}

	remaining, err := internal.ParseCount(remainingRaw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolViolation, err)
	}
	retry, err := internal.ParseSeconds(retryRaw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolViolation, err)
	}
	info.Remaining = &remaining
	info.RetryAfterSeconds = &retry

	// Optional ones are kept only when well-formed.
	if v, ok := h[HeaderRateLimitLimit]; ok {
		if n, err := internal.ParseCount(v); err == nil {
			info.Limit = &n
		}
	}
	if v, ok := h[HeaderRateLimitWindow]; ok {
		if n, err := internal.ParseCount(v); err == nil {
			info.WindowSeconds = &n
		}
	}
	return nil
}

// platformRetrySeconds reads rateLimit.retryInSeconds from a platform 429 body.
func platformRetrySeconds(data []byte) (float64, error) {
	body, err := parseBody(data)
	if err != nil {
		return 0, err
	}
	rl, ok := body[rateLimitField].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrFieldAbsent, rateLimitField)
	}
	raw, ok := rl[retryInSecsField]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrFieldAbsent, rateLimitField, retryInSecsField)
	}
	secs, err := internal.SecondsFromJSON(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s: %v", ErrMalformedBody, rateLimitField, retryInSecsField, err)
	}
	return secs, nil
}

// parseBody decodes a JSON object. Anything else is ErrMalformedBody.
func parseBody(data []byte) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedBody)
	}
	return body, nil
}

func lowerKeys(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = v
	}
	return out
}

func intPtr(i int) *int {
	return &i
}
