// internal/header_parser.go
// --------------------------
// Helpers for turning rate-limit header values and body fields into numbers.
//
// Functions:
// - ParseSeconds: "15", "2.5" into a non-negative number of seconds.
// - ParseRetryAfter: a Retry-After value, either delta-seconds or an HTTP-date.
// - ParseCount: a non-negative integer such as a remaining quota.
// - SecondsFromJSON: a seconds value decoded from a JSON body (number or numeric string).
// - ResetAtMs: the instant, in ms, at which a retry window observed at a given time ends.
package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseSeconds converts a decimal seconds string into a finite, non-negative float.
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seconds %q: %w", s, err)
	}
	if err := checkSeconds(v); err != nil {
		return 0, fmt.Errorf("parse seconds %q: %w", s, err)
	}
	return v, nil
}

func checkSeconds(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Errorf("not a finite number")
	case v < 0:
		return fmt.Errorf("negative value")
	}
	return nil
}

// ParseRetryAfter accepts both forms allowed for Retry-After. An HTTP-date in
// the past yields zero.
func ParseRetryAfter(s string, now time.Time) (float64, error) {
	if v, err := ParseSeconds(s); err == nil {
		return v, nil
	}
	t, err := http.ParseTime(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse retry-after %q: not seconds or http-date", s)
	}
	d := t.Sub(now).Seconds()
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// ParseCount converts a non-negative integer string.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("parse count %q: negative value", s)
	}
	return v, nil
}

// SecondsFromJSON converts a decoded JSON value into seconds.
func SecondsFromJSON(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		if err := checkSeconds(n); err != nil {
			return 0, fmt.Errorf("seconds %v: %w", n, err)
		}
		return n, nil
	case json.Number:
		return ParseSeconds(n.String())
	case string:
		return ParseSeconds(n)
	default:
		return 0, fmt.Errorf("seconds has unexpected type %T", v)
	}
}

// ResetAtMs returns observedAt plus the given seconds, in unix milliseconds.
// The result saturates at math.MaxInt64 instead of overflowing.
func ResetAtMs(observedAt time.Time, seconds float64) int64 {
	base := observedAt.UnixMilli()
	if math.IsNaN(seconds) || seconds <= 0 {
		return base
	}
	ms := seconds * 1000
	if ms >= float64(math.MaxInt64-base) {
		return math.MaxInt64
	}
	return base + int64(ms)
}

// IsInFuture checks if a timestamp (in ms) is after now.
func IsInFuture(ms int64, now time.Time) bool {
	return ms > now.UnixMilli()
}
