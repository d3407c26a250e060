package shapewaysbridge

import "net/http"

type options struct {
	baseURL           string
	httpClient        *http.Client
	transport         Transport
	logger            Logger
	debug             bool
	requestsPerSecond float64
	burst             int
	metrics           *Metrics
	accessToken       string
}

// Option is a functional option for configuring a Client.
type Option func(*options)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the *http.Client used for authentication and, unless
// WithTransport is also given, for API requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTransport replaces the HTTP transport used for API requests.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithLogger sets the logger for authentication failures and debug output.
// If not set, log.Default() is used.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithDebug(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithRequestRate paces outgoing requests to rps with the given burst.
// Pacing only spaces requests out; nothing is retried.
func WithRequestRate(rps float64, burst int) Option {
	return func(o *options) {
		o.requestsPerSecond = rps
		o.burst = burst
	}
}

// WithMetrics records request outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithAccessToken starts the client with a pre-issued bearer token.
func WithAccessToken(token string) Option {
	return func(o *options) {
		o.accessToken = token
	}
}
