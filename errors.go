package shapewaysbridge

import "errors"

// Usage errors. These are raised locally and never sent over the wire.
var (
	// ErrNoAccessToken indicates an authenticated call was made before Authenticate succeeded.
	ErrNoAccessToken = errors.New("access token not defined: call Authenticate first")

	// ErrMissingOrderItems indicates OrderModel got neither items nor a model/material pair.
	ErrMissingOrderItems = errors.New("need either items or model id and material id")

	// ErrMissingParameter indicates a required request field was left empty.
	ErrMissingParameter = errors.New("missing required parameter")
)

// ErrProtocolViolation indicates a 200 response without the rate-limit headers
// the platform always sends.
var ErrProtocolViolation = errors.New("protocol violation")

// Response diagnostics, attached to Result.Diagnostic.
var (
	// ErrMalformedBody indicates the body was not valid JSON.
	ErrMalformedBody = errors.New("malformed response body")

	// ErrFieldAbsent indicates the body parsed but an expected field was missing.
	ErrFieldAbsent = errors.New("expected field absent")

	// ErrMalformedHeader indicates a 429 carried a retry-after header that was
	// neither delta-seconds nor an HTTP-date.
	ErrMalformedHeader = errors.New("malformed rate-limit header")
)
