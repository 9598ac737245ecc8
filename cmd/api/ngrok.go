package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// The ngrok sidecar may still be starting when the bot boots, so the local
// API is polled for a while before giving up.
const (
	ngrokPollAttempts = 10
	ngrokPollInterval = 3 * time.Second
)

type ngrokTunnels struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	} `json:"tunnels"`
}

// detectNgrokURL polls the ngrok local API and returns a public tunnel URL,
// preferring HTTPS. Unreachable API and no-tunnels-yet both count as "not
// ready" and are retried.
func detectNgrokURL(ctx context.Context, apiBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	var lastErr error
	for attempt := 0; attempt < ngrokPollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ngrokPollInterval):
			}
		}

		url, err := fetchTunnelURL(ctx, client, apiBase+"/api/tunnels")
		if err == nil {
			return url, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("ngrok not ready after %d attempts: %w", ngrokPollAttempts, lastErr)
}

// fetchTunnelURL makes one query against the ngrok local API.
func fetchTunnelURL(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ngrok API not reachable: %w", err)
	}
	defer resp.Body.Close()

	var tunnels ngrokTunnels
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	for _, t := range tunnels.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(tunnels.Tunnels) > 0 {
		return tunnels.Tunnels[0].PublicURL, nil
	}
	return "", fmt.Errorf("ngrok has no active tunnels yet")
}
