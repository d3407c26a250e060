package main

import (
	"context"
	"errors"
	"io"
	"os"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
	"github.com/opengovern/shapeways-bridge/modelsource"
)

var (
	ErrCredentialsMissing = errors.New("no access token and no client credentials configured")
	ErrAuthRejected       = errors.New("authentication rejected")
	ErrRequestFailed      = errors.New("request failed")
	ErrRateLimited        = errors.New("rate limited")
)

// Env holds injectable dependencies for CLI commands.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// S3Reader builds the reader used by "upload --s3".
	S3Reader func(cfg modelsource.S3Config) (modelsource.Reader, error)
	// Options are appended when building each client.
	Options []shapewaysbridge.Option
}

func DefaultEnv() *Env {
	return &Env{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		S3Reader: func(cfg modelsource.S3Config) (modelsource.Reader, error) {
			return modelsource.NewS3Reader(cfg)
		},
	}
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	baseURL    string
	token      string
	debug      bool
}

// connect loads configuration, applies flag overrides and returns a client
// holding an access token, authenticating when no token is configured.
func connect(ctx context.Context, env *Env, gf *globalFlags) (*shapewaysbridge.Client, shapewaysbridge.Config, error) {
	cfg, err := shapewaysbridge.LoadConfig(gf.configPath)
	if err != nil {
		return nil, cfg, err
	}
	if gf.baseURL != "" {
		cfg.BaseURL = gf.baseURL
	}
	if gf.token != "" {
		cfg.AccessToken = gf.token
	}
	if gf.debug {
		cfg.Debug = true
	}

	opts := append([]shapewaysbridge.Option{
		shapewaysbridge.WithLogger(newLogger(env.Stderr)),
	}, env.Options...)
	client, err := shapewaysbridge.NewClientFromConfig(cfg, opts...)
	if err != nil {
		return nil, cfg, err
	}
	if cfg.AccessToken != "" {
		return client, cfg, nil
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, cfg, ErrCredentialsMissing
	}
	ok, err := client.Authenticate(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, cfg, err
	}
	if !ok {
		return nil, cfg, ErrAuthRejected
	}
	return client, cfg, nil
}
