package shapewaysbridge_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
)

// writeJSON sets the content type explicitly; the oauth2 package parses
// text/plain token responses as form data.
func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestAuthenticate_ThenBearerOnRequests(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		if !ok || id != "id" || secret != "secret" {
			writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_client"}`)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			writeJSON(w, http.StatusBadRequest, `{"error":"unsupported_grant_type"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"access_token":"abc"}`)
	})
	mux.HandleFunc("/materials/v1", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("x-ratelimit-remaining", "99")
		w.Header().Set("x-ratelimit-retry-inseconds", "60")
		writeJSON(w, http.StatusOK, `{"result":"success","materials":{}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := shapewaysbridge.NewClient(shapewaysbridge.WithBaseURL(srv.URL))

	ok, err := c.Authenticate(context.Background(), "id", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	token, set := c.Session().AccessToken()
	assert.True(t, set)
	assert.Equal(t, "abc", token)

	res, err := c.GetMaterials(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "Bearer abc", gotAuth)
	require.NotNil(t, res.RateLimit.Remaining)
	assert.Equal(t, 99, *res.RateLimit.Remaining)
}

func TestAuthenticate_RejectedLeavesTokenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_client"}`)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	c := shapewaysbridge.NewClient(
		shapewaysbridge.WithBaseURL(srv.URL),
		shapewaysbridge.WithLogger(log.New(&logs, "", 0)),
	)

	ok, err := c.Authenticate(context.Background(), "id", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, set := c.Session().AccessToken()
	assert.False(t, set)
	assert.Contains(t, logs.String(), "status code 401")
	assert.Contains(t, logs.String(), "invalid_client")

	_, err = c.GetMaterials(context.Background())
	assert.ErrorIs(t, err, shapewaysbridge.ErrNoAccessToken)
}

func TestAuthenticate_NonOKSuccessStatusIsRejected(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusAccepted} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, status, `{"access_token":"abc","token_type":"bearer"}`)
			}))
			defer srv.Close()

			var logs bytes.Buffer
			c := shapewaysbridge.NewClient(
				shapewaysbridge.WithBaseURL(srv.URL),
				shapewaysbridge.WithLogger(log.New(&logs, "", 0)),
			)

			ok, err := c.Authenticate(context.Background(), "id", "secret")
			require.NoError(t, err)
			assert.False(t, ok)

			_, set := c.Session().AccessToken()
			assert.False(t, set)
			assert.Contains(t, logs.String(), fmt.Sprintf("status code %d", status))
		})
	}
}

func TestAuthenticate_KeepsCallerHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"abc"}`)
	}))
	defer srv.Close()

	hc := &http.Client{Timeout: 5 * time.Second}
	c := shapewaysbridge.NewClient(shapewaysbridge.WithBaseURL(srv.URL), shapewaysbridge.WithHTTPClient(hc))

	ok, err := c.Authenticate(context.Background(), "id", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, hc.Transport)
}

func TestAuthenticate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := shapewaysbridge.NewClient(shapewaysbridge.WithBaseURL(url))
	ok, err := c.Authenticate(context.Background(), "id", "secret")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestAuthenticate_RecordsExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"abc","token_type":"bearer","expires_in":3600}`)
	}))
	defer srv.Close()

	c := shapewaysbridge.NewClient(shapewaysbridge.WithBaseURL(srv.URL))
	ok, err := c.Authenticate(context.Background(), "id", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	exp := c.Session().ExpiresAt()
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestSetAccessToken_ReadsJWTExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	c := shapewaysbridge.NewClient()
	c.SetAccessToken(raw)

	assert.True(t, c.Session().ExpiresAt().Equal(exp))

	c.SetAccessToken("opaque")
	assert.True(t, c.Session().ExpiresAt().IsZero())
}

func TestClients_HaveIndependentSessions(t *testing.T) {
	a := shapewaysbridge.NewClient(shapewaysbridge.WithAccessToken("a"))
	b := shapewaysbridge.NewClient()

	_, setA := a.Session().AccessToken()
	_, setB := b.Session().AccessToken()
	assert.True(t, setA)
	assert.False(t, setB)
}
