package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client implements IOpenRouter against the OpenRouter chat-completions API.
type Client struct {
	cfg Config
}

var _ IOpenRouter = (*Client)(nil)

// New creates a new OpenRouter client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

// Model returns the model being used.
func (c *Client) Model() string {
	return c.cfg.Model
}

// CreateChatCompletion sends the message sequence and returns the first
// choice's content. Transient failures (network, timeout, 5xx, 429, edge-SSL)
// are retried with exponential backoff, bounded by MaxAttempts and MaxElapsed.
// A 429 Retry-After delay takes precedence over the backoff delay.
// Malformed response bodies surface immediately as ErrMalformedResponse.
func (c *Client) CreateChatCompletion(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.MaxElapsed)
	defer cancel()

	var lastErr error
	delay := c.cfg.RetryDelay

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := delay
			var apiErr *APIError
			if errors.As(lastErr, &apiErr) && apiErr.RetryAfter > 0 {
				wait = apiErr.RetryAfter
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v (budget exceeded: %v)", ErrAttemptsExhausted, lastErr, ctx.Err())
			}
			delay *= 2
		}

		content, err := c.doRequest(ctx, messages)
		if err == nil {
			return content, nil
		}
		if !isTransient(err) {
			return "", err
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrAttemptsExhausted, c.cfg.MaxAttempts, lastErr)
}

// doRequest performs a single attempt with the per-attempt timeout.
func (c *Client) doRequest(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(chatCompletionRequest{
		Model:            c.cfg.Model,
		Messages:         messages,
		Temperature:      c.cfg.Temperature,
		TopP:             c.cfg.TopP,
		MaxTokens:        c.cfg.MaxTokens,
		FrequencyPenalty: c.cfg.FrequencyPenalty,
		PresencePenalty:  c.cfg.PresencePenalty,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openrouter: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrMalformedResponse)
	}
	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}

	return content, nil
}

// parseRetryAfter handles the delay-seconds form of the Retry-After header.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
