// sdk.go
// ------
// The sdk.go file contains the core Client struct and its methods.
// This is the main entry point of the SDK for users.
//
// Key functionalities include:
// - Initializing the SDK with NewClient() or NewClientFromConfig()
// - Authenticating with Authenticate() (see auth.go)
// - Making requests via Dispatch() (see dispatcher.go) or the endpoint methods
// - Retrieving the rate limit state observed on the last response
//
// The Client owns its Session, so several authenticated clients can coexist
// in one process.
package shapewaysbridge

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.shapeways.com"
	DefaultTimeout = 30 * time.Second
)

type Client struct {
	mu          sync.Mutex
	session     *Session
	httpClient  *http.Client
	transport   Transport
	rateLimiter *RateLimiter
	limiter     *rate.Limiter // optional request pacing
	metrics     *Metrics
	logger      Logger
	now         func() time.Time

	Debug bool // If true, print debug info
}

func NewClient(opts ...Option) *Client {
	o := options{
		baseURL: DefaultBaseURL,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(o.httpClient)
	}

	c := &Client{
		session:     newSession(o.baseURL),
		httpClient:  o.httpClient,
		transport:   o.transport,
		rateLimiter: NewRateLimiter(),
		metrics:     o.metrics,
		logger:      o.logger,
		now:         time.Now,
		Debug:       o.debug,
	}
	if o.requestsPerSecond > 0 {
		burst := o.burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(o.requestsPerSecond), burst)
	}
	if o.accessToken != "" {
		c.SetAccessToken(o.accessToken)
	}
	return c
}

// NewClientFromConfig builds a client from a loaded Config. Explicit options
// are applied after the config and win over it.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout format: %w", err)
	}

	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{Timeout: timeout}),
		WithDebug(cfg.Debug),
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		base = append(base, WithRequestRate(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	if cfg.AccessToken != "" {
		base = append(base, WithAccessToken(cfg.AccessToken))
	}
	return NewClient(append(base, opts...)...), nil
}

// SetDebug enables or disables debug logging for the SDK.
func (c *Client) SetDebug(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Debug = enabled
}

// GetRateLimitInfo returns the rate limit info observed on the last response, or nil.
func (c *Client) GetRateLimitInfo() *NormalizedRateLimitInfo {
	return c.rateLimiter.GetRateLimitInfo()
}

// DelayBeforeNextRequest reports how long the caller should wait before the
// next request, based on the last observed rate limit. The client never waits
// on this itself.
func (c *Client) DelayBeforeNextRequest() time.Duration {
	return c.rateLimiter.delayBeforeNextRequest(c.now())
}

// debugf prints debug messages if Debug mode is enabled.
func (c *Client) debugf(format string, args ...interface{}) {
	c.mu.Lock()
	debug := c.Debug
	c.mu.Unlock()
	if debug {
		c.logger.Printf("[DEBUG] "+format, args...)
	}
}

// CanProceed reports whether the last observed rate limit allows a request now.
func (c *Client) CanProceed() bool {
	return c.rateLimiter.canProceed(c.now())
}
