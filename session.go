package shapewaysbridge

import (
	"strings"
	"sync"
	"time"
)

// Session holds the bearer token and base URL for one Client.
// It is safe for concurrent use; only authentication writes to it.
type Session struct {
	mu          sync.RWMutex
	baseURL     string
	accessToken string
	expiresAt   time.Time
}

func newSession(baseURL string) *Session {
	return &Session{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Session) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// AccessToken returns the bearer token and whether one is set.
func (s *Session) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.accessToken != ""
}

// ExpiresAt returns the token expiry, or the zero time if unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) setToken(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	s.expiresAt = expiresAt
}
