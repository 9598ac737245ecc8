package gworkspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/fitness/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

// scopes covers every service the client touches. Read-only throughout:
// the bot consumes context, it never mutates the user's Google data.
var scopes = []string{
	calendar.CalendarReadonlyScope,
	tasks.TasksReadonlyScope,
	fitness.FitnessSleepReadScope,
}

// Client wraps the Google Calendar, Tasks, and Fitness services behind one
// authenticated identity. Each summary method fails independently so a broken
// scope degrades only its own context field.
type Client struct {
	calendar   *calendar.Service
	tasks      *tasks.Service
	fitness    *fitness.Service
	calendarID string
	location   *time.Location
}

// NewClientFromConfig creates a client from credentials/token file paths.
func NewClientFromConfig(ctx context.Context, cfg Config) (*Client, error) {
	data, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return newClientFromCredentialsJSON(ctx, data, cfg)
}

// newClientFromCredentialsJSON builds services from raw credentials bytes.
// Service Account JSON is tried first; OAuth Desktop credentials fall back to
// a previously generated token file (see cmd/gcal-auth).
func newClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, cfg Config) (*Client, error) {
	var tokenSource oauth2.TokenSource

	if jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, scopes...); err == nil {
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig, cfgErr := google.ConfigFromJSON(credentialsJSON, scopes...)
		if cfgErr != nil {
			return nil, fmt.Errorf("unsupported credentials format: %w", cfgErr)
		}

		tokenPath := cfg.TokenPath
		if tokenPath == "" {
			tokenPath = "token.json"
		}
		tokenData, tokenErr := os.ReadFile(tokenPath)
		if tokenErr != nil {
			return nil, fmt.Errorf("OAuth Desktop credentials but no token file %q: run cmd/gcal-auth first", tokenPath)
		}

		var tok oauth2.Token
		if jsonErr := json.Unmarshal(tokenData, &tok); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse token file: %w", jsonErr)
		}
		tokenSource = oauthConfig.TokenSource(ctx, &tok)
	}

	return newClient(ctx, cfg, option.WithTokenSource(tokenSource))
}

// NewClientFromHTTP creates a client from a pre-configured HTTP client.
// Intended for tests.
func NewClientFromHTTP(ctx context.Context, cfg Config, httpClient *http.Client) (*Client, error) {
	return newClient(ctx, cfg, option.WithHTTPClient(httpClient))
}

func newClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	calendarSvc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	tasksSvc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	fitnessSvc, err := fitness.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fitness service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	location := time.Local
	if cfg.Timezone != "" {
		loc, locErr := time.LoadLocation(cfg.Timezone)
		if locErr != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, locErr)
		}
		location = loc
	}

	return &Client{
		calendar:   calendarSvc,
		tasks:      tasksSvc,
		fitness:    fitnessSvc,
		calendarID: calendarID,
		location:   location,
	}, nil
}
