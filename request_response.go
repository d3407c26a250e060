package shapewaysbridge

import "net/url"

type NormalizedRequest struct {
	Method   string
	Endpoint string
	Query    url.Values
	Headers  map[string]string
	Body     []byte
}

// NormalizedResponse is the raw transport response. Header keys are lower-cased.
type NormalizedResponse struct {
	StatusCode int
	Headers    map[string]string
	Data       []byte
}

// RateLimitAuthority names the layer that imposed a rate limit.
type RateLimitAuthority string

const (
	AuthorityPlatform RateLimitAuthority = "SHAPEWAYS"
	AuthorityEdge     RateLimitAuthority = "CLOUDFLARE"
)

// NormalizedRateLimitInfo is the rate-limit state reported by a single response.
type NormalizedRateLimitInfo struct {
	Authority         RateLimitAuthority
	RetryAfterSeconds *float64
	Remaining         *int
	IsRateLimited     bool

	// Only populated on successful responses, when the platform sends them.
	Limit         *int
	WindowSeconds *int
}

// Outcome tags a Result.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomeRateLimited
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "failure"
	}
}

// ErrorDetail carries the body of a failed response. Body is set when the
// response was a JSON object; Raw always holds the body as received.
type ErrorDetail struct {
	Body map[string]any
	Raw  string
}

// Result is the uniform shape returned by every endpoint method.
type Result struct {
	Outcome    Outcome
	StatusCode int

	// Payload is set only when Outcome is OutcomeSuccess.
	Payload map[string]any
	// ErrorDetail is set only when Outcome is OutcomeFailure.
	ErrorDetail *ErrorDetail

	RateLimit NormalizedRateLimitInfo

	// Diagnostic reports a problem reading the body (ErrMalformedBody or
	// ErrFieldAbsent). It never means the call itself failed.
	Diagnostic error
}

func (r *Result) Success() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}

func (r *Result) RateLimited() bool {
	return r != nil && r.Outcome == OutcomeRateLimited
}
