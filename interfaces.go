package shapewaysbridge

import "context"

// Transport defines the interface the HTTP layer must implement.
// HTTPTransport is the net/http implementation; the mock package provides
// a scripted one for tests.
type Transport interface {
	ExecuteRequest(ctx context.Context, req *NormalizedRequest) (*NormalizedResponse, error)
}

// Logger is an interface for logging authentication failures and debug traces.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}
