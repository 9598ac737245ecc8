package config

import (
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("Sectioned Env Keys And Defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("TELEGRAM_ALLOWED_CHAT_ID", "42")
		t.Setenv("OPENROUTER_API_KEY", "test-key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Telegram.BotToken != "test-token" {
			t.Errorf("bot token = %q", cfg.Telegram.BotToken)
		}
		if cfg.Telegram.AllowedChatID != 42 {
			t.Errorf("allowed chat id = %d", cfg.Telegram.AllowedChatID)
		}
		if cfg.OpenRouter.APIKey != "test-key" {
			t.Errorf("api key = %q", cfg.OpenRouter.APIKey)
		}

		// Defaults fill everything not set explicitly.
		if cfg.OpenRouter.Model != "anthropic/claude-3-sonnet" {
			t.Errorf("default model = %q", cfg.OpenRouter.Model)
		}
		if cfg.OpenRouter.MaxTokens != 150 {
			t.Errorf("default max tokens = %d", cfg.OpenRouter.MaxTokens)
		}
		if cfg.Scheduler.WindowStart != "09:00" || cfg.Scheduler.WindowEnd != "22:00" {
			t.Errorf("default window = %s-%s", cfg.Scheduler.WindowStart, cfg.Scheduler.WindowEnd)
		}
		if cfg.Memory.MaxMessages != 30 {
			t.Errorf("default max messages = %d", cfg.Memory.MaxMessages)
		}
		if cfg.Storage.DataDir != "data" {
			t.Errorf("default data dir = %q", cfg.Storage.DataDir)
		}
	})

	t.Run("Missing Bot Token Rejected", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("OPENROUTER_API_KEY", "test-key")

		if _, err := Load(); err == nil {
			t.Errorf("expected error without telegram.bot_token")
		}
	})

	t.Run("Missing API Key Rejected", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("OPENROUTER_API_KEY", "")

		if _, err := Load(); err == nil {
			t.Errorf("expected error without openrouter.api_key")
		}
	})
}
