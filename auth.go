package shapewaysbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthEndpoint is the client-credentials token endpoint, relative to the base URL.
const AuthEndpoint = "/oauth2/token"

// Authenticate exchanges the application's client id and secret for a bearer
// token and stores it in the client's Session.
//
// A rejected exchange is logged with its status code and body and reported as
// false with a nil error; the Session is left untouched. Errors are returned
// only when the exchange could not be completed at all.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (bool, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.session.BaseURL() + AuthEndpoint,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	hc, status := recordStatus(c.httpClient)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	tok, err := cfg.Token(ctx)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			status := 0
			if rerr.Response != nil {
				status = rerr.Response.StatusCode
			}
			c.logger.Printf("authentication failed: status code %d: %s", status, rerr.Body)
			c.metrics.observeAuth(false)
			return false, nil
		}
		c.metrics.observeAuth(false)
		return false, fmt.Errorf("authenticate: %w", err)
	}

	// oauth2 accepts any 2xx; only 200 carries a token we keep.
	if *status != http.StatusOK {
		c.logger.Printf("authentication failed: status code %d: unexpected success status", *status)
		c.metrics.observeAuth(false)
		return false, nil
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = jwtExpiry(tok.AccessToken)
	}
	c.session.setToken(tok.AccessToken, expiry)
	c.metrics.observeAuth(true)
	c.debugf("Authenticated against %s (expires: %s)\n", cfg.TokenURL, formatExpiry(expiry))
	return true, nil
}

// SetAccessToken installs a token obtained elsewhere.
func (c *Client) SetAccessToken(token string) {
	c.session.setToken(token, jwtExpiry(token))
}

// statusRecorder remembers the status code of the last response it carried.
type statusRecorder struct {
	next   http.RoundTripper
	status int
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if resp != nil {
		r.status = resp.StatusCode
	}
	return resp, err
}

// recordStatus returns a copy of hc whose transport records response status
// codes into the returned int.
func recordStatus(hc *http.Client) (*http.Client, *int) {
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	rec := &statusRecorder{next: next}
	cp := *hc
	cp.Transport = rec
	return &cp, &rec.status
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

// jwtExpiry reads the exp claim when the bearer token happens to be a JWT.
// The token is not verified; the expiry is informational only.
func jwtExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(time.RFC3339)
}
