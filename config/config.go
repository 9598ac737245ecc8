package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Kurisu specifics
	Telegram   TelegramConfig
	OpenRouter OpenRouterConfig
	Google     GoogleConfig
	Memory     MemoryConfig
	Scheduler  SchedulerConfig
	Storage    StorageConfig
	Persona    PersonaConfig
}

type EnvironmentConfig struct {
	Name     string
	Timezone string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken      string
	WebhookURL    string
	AllowedChatID int64
}

// OpenRouterConfig configures the chat-completion client and its retry policy.
type OpenRouterConfig struct {
	APIKey           string
	Model            string
	BaseURL          string
	Temperature      float64
	TopP             float64
	MaxTokens        int
	FrequencyPenalty float64
	PresencePenalty  float64
	RequestTimeout   time.Duration
	MaxAttempts      int
	MaxElapsed       time.Duration
}

type GoogleConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
}

type MemoryConfig struct {
	MaxMessages int
	MaxUsers    int
}

// SchedulerConfig bounds the proactive message loop.
// WindowStart/WindowEnd are local times in "HH:MM" form.
type SchedulerConfig struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	WindowStart string
	WindowEnd   string
}

type StorageConfig struct {
	DataDir string
}

type PersonaConfig struct {
	SystemPrompt string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.Environment.Timezone = viper.GetString("environment.timezone")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Telegram
	cfg.Telegram.BotToken = expandEnvVar(viper.GetString("telegram.bot_token"))
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.AllowedChatID = viper.GetInt64("telegram.allowed_chat_id")

	// OpenRouter
	cfg.OpenRouter.APIKey = expandEnvVar(viper.GetString("openrouter.api_key"))
	cfg.OpenRouter.Model = viper.GetString("openrouter.model")
	cfg.OpenRouter.BaseURL = viper.GetString("openrouter.base_url")
	cfg.OpenRouter.Temperature = viper.GetFloat64("openrouter.temperature")
	cfg.OpenRouter.TopP = viper.GetFloat64("openrouter.top_p")
	cfg.OpenRouter.MaxTokens = viper.GetInt("openrouter.max_tokens")
	cfg.OpenRouter.FrequencyPenalty = viper.GetFloat64("openrouter.frequency_penalty")
	cfg.OpenRouter.PresencePenalty = viper.GetFloat64("openrouter.presence_penalty")
	cfg.OpenRouter.RequestTimeout = viper.GetDuration("openrouter.request_timeout")
	cfg.OpenRouter.MaxAttempts = viper.GetInt("openrouter.max_attempts")
	cfg.OpenRouter.MaxElapsed = viper.GetDuration("openrouter.max_elapsed")

	// Google
	cfg.Google.CredentialsPath = viper.GetString("google.credentials_path")
	cfg.Google.TokenPath = viper.GetString("google.token_path")
	cfg.Google.CalendarID = viper.GetString("google.calendar_id")

	// Memory
	cfg.Memory.MaxMessages = viper.GetInt("memory.max_messages")
	cfg.Memory.MaxUsers = viper.GetInt("memory.max_users")

	// Scheduler
	cfg.Scheduler.MinInterval = viper.GetDuration("scheduler.min_interval")
	cfg.Scheduler.MaxInterval = viper.GetDuration("scheduler.max_interval")
	cfg.Scheduler.WindowStart = viper.GetString("scheduler.window_start")
	cfg.Scheduler.WindowEnd = viper.GetString("scheduler.window_end")
	if cfg.Scheduler.MinInterval > cfg.Scheduler.MaxInterval {
		return nil, fmt.Errorf("scheduler.min_interval %s exceeds scheduler.max_interval %s",
			cfg.Scheduler.MinInterval, cfg.Scheduler.MaxInterval)
	}

	// Storage
	cfg.Storage.DataDir = viper.GetString("storage.data_dir")

	// Persona
	cfg.Persona.SystemPrompt = viper.GetString("persona.system_prompt")

	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram.bot_token is required")
	}
	if cfg.OpenRouter.APIKey == "" {
		return nil, fmt.Errorf("openrouter.api_key is required")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("environment.timezone", "America/Sao_Paulo")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// OpenRouter defaults mirror the sampling profile the bot was tuned with
	viper.SetDefault("openrouter.model", "anthropic/claude-3-sonnet")
	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("openrouter.temperature", 0.7)
	viper.SetDefault("openrouter.top_p", 0.9)
	viper.SetDefault("openrouter.max_tokens", 150)
	viper.SetDefault("openrouter.frequency_penalty", 0.4)
	viper.SetDefault("openrouter.presence_penalty", 0.3)
	viper.SetDefault("openrouter.request_timeout", "30s")
	viper.SetDefault("openrouter.max_attempts", 5)
	viper.SetDefault("openrouter.max_elapsed", "60s")

	viper.SetDefault("google.credentials_path", "credentials.json")
	viper.SetDefault("google.token_path", "token.json")
	viper.SetDefault("google.calendar_id", "primary")

	viper.SetDefault("memory.max_messages", 30)
	viper.SetDefault("memory.max_users", 128)

	viper.SetDefault("scheduler.min_interval", "40m")
	viper.SetDefault("scheduler.max_interval", "3h")
	viper.SetDefault("scheduler.window_start", "09:00")
	viper.SetDefault("scheduler.window_end", "22:00")

	viper.SetDefault("storage.data_dir", "data")

	viper.SetDefault("persona.system_prompt", DefaultSystemPrompt)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}
