package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ActionTyping is the chat action shown while the bot composes a reply.
const ActionTyping = "typing"

// Bot is the Telegram Bot API client.
// Outbound calls share a rate limiter: the Bot API rejects sustained bursts
// above ~30 messages per second across all chats.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(25), 5),
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL string) error {
	return b.call(ctx, "setWebhook", map[string]string{"url": webhookURL})
}

// DeleteWebhook unregisters the webhook so the token can fall back to polling.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	return b.call(ctx, "deleteWebhook", map[string]string{})
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.SendMessageWithMode(ctx, chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error {
	return b.call(ctx, "sendMessage", SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
}

// SendChatAction shows a transient status (e.g. "typing") in the chat.
func (b *Bot) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return b.call(ctx, "sendChatAction", SendChatActionRequest{
		ChatID: chatID,
		Action: action,
	})
}

// call posts a JSON payload to a Bot API method and checks the ok flag.
func (b *Bot) call(ctx context.Context, method string, payload any) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram %s: rate limiter: %w", method, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: failed to marshal payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/%s", b.apiURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("telegram %s: failed to create request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var apiResp APIResponse
		if jsonErr := json.Unmarshal(raw, &apiResp); jsonErr == nil && apiResp.Description != "" {
			return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, apiResp.Description)
		}
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("telegram %s: failed to decode response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s failed: %s", method, apiResp.Description)
	}

	return nil
}
