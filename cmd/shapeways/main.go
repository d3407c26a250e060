// Command shapeways is a command-line client for the Shapeways API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const (
	ExitOK          = 0
	ExitGeneral     = 1
	ExitUsage       = 2
	ExitSetup       = 3
	ExitRemote      = 4
	ExitRateLimited = 5
	ExitInterrupt   = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd(DefaultEnv())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}
	if isCobraUsageError(err) || errors.Is(err, shapewaysbridge.ErrMissingParameter) ||
		errors.Is(err, shapewaysbridge.ErrMissingOrderItems) {
		return ExitUsage
	}
	if errors.Is(err, ErrCredentialsMissing) || errors.Is(err, ErrAuthRejected) ||
		errors.Is(err, shapewaysbridge.ErrNoAccessToken) {
		return ExitSetup
	}
	if errors.Is(err, ErrRateLimited) {
		return ExitRateLimited
	}
	if errors.Is(err, ErrRequestFailed) || errors.Is(err, shapewaysbridge.ErrProtocolViolation) {
		return ExitRemote
	}
	return ExitGeneral
}

// Cobra doesn't expose typed usage errors.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
	"unknown command",
}

func isCobraUsageError(err error) bool {
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
