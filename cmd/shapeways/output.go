package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
)

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "shapeways: ", log.LstdFlags)
}

type rateLimitView struct {
	Authority         string   `json:"authority"`
	IsRateLimited     bool     `json:"is_rate_limited"`
	Remaining         *int     `json:"remaining,omitempty"`
	RetryAfterSeconds *float64 `json:"retry_after_seconds,omitempty"`
	Limit             *int     `json:"limit,omitempty"`
	WindowSeconds     *int     `json:"window_seconds,omitempty"`
}

type resultView struct {
	Outcome    string         `json:"outcome"`
	StatusCode int            `json:"status_code"`
	Payload    map[string]any `json:"payload,omitempty"`
	Error      any            `json:"error,omitempty"`
	RateLimit  rateLimitView  `json:"rate_limit"`
	Diagnostic string         `json:"diagnostic,omitempty"`
}

func viewOf(res *shapewaysbridge.Result) resultView {
	v := resultView{
		Outcome:    res.Outcome.String(),
		StatusCode: res.StatusCode,
		Payload:    res.Payload,
		RateLimit: rateLimitView{
			Authority:         string(res.RateLimit.Authority),
			IsRateLimited:     res.RateLimit.IsRateLimited,
			Remaining:         res.RateLimit.Remaining,
			RetryAfterSeconds: res.RateLimit.RetryAfterSeconds,
			Limit:             res.RateLimit.Limit,
			WindowSeconds:     res.RateLimit.WindowSeconds,
		},
	}
	if d := res.ErrorDetail; d != nil {
		if d.Body != nil {
			v.Error = d.Body
		} else {
			v.Error = d.Raw
		}
	}
	if res.Diagnostic != nil {
		v.Diagnostic = res.Diagnostic.Error()
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes the result as JSON and maps a non-success outcome to an
// error so the process exit code reflects it.
func printResult(w io.Writer, res *shapewaysbridge.Result) error {
	if err := writeJSON(w, viewOf(res)); err != nil {
		return err
	}
	return outcomeErr(res)
}

func outcomeErr(res *shapewaysbridge.Result) error {
	switch res.Outcome {
	case shapewaysbridge.OutcomeSuccess:
		return nil
	case shapewaysbridge.OutcomeRateLimited:
		if s := res.RateLimit.RetryAfterSeconds; s != nil {
			return fmt.Errorf("%w by %s: retry in %gs", ErrRateLimited, res.RateLimit.Authority, *s)
		}
		return fmt.Errorf("%w by %s", ErrRateLimited, res.RateLimit.Authority)
	default:
		return fmt.Errorf("%w: status %d", ErrRequestFailed, res.StatusCode)
	}
}
