package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kurisu-bot/config"
	"kurisu-bot/internal/agent/orchestrator"
	tgDelivery "kurisu-bot/internal/chat/delivery/telegram"
	"kurisu-bot/internal/httpserver"
	"kurisu-bot/internal/memory"
	"kurisu-bot/internal/scheduler"
	fileRepo "kurisu-bot/internal/task/repository/file"
	taskUC "kurisu-bot/internal/task/usecase"
	"kurisu-bot/pkg/datemath"
	"kurisu-bot/pkg/gworkspace"
	"kurisu-bot/pkg/log"
	"kurisu-bot/pkg/openrouter"
	"kurisu-bot/pkg/telegram"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Kurisu...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	loc, err := time.LoadLocation(cfg.Environment.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Environment.Timezone, err)
		loc = time.UTC
	}

	// 3. Telegram Bot client
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)

	// 4. OpenRouter LLM client
	llmClient, err := openrouter.New(openrouter.Config{
		APIKey:           cfg.OpenRouter.APIKey,
		Model:            cfg.OpenRouter.Model,
		BaseURL:          cfg.OpenRouter.BaseURL,
		Temperature:      cfg.OpenRouter.Temperature,
		TopP:             cfg.OpenRouter.TopP,
		MaxTokens:        cfg.OpenRouter.MaxTokens,
		FrequencyPenalty: cfg.OpenRouter.FrequencyPenalty,
		PresencePenalty:  cfg.OpenRouter.PresencePenalty,
		RequestTimeout:   cfg.OpenRouter.RequestTimeout,
		MaxAttempts:      cfg.OpenRouter.MaxAttempts,
		MaxElapsed:       cfg.OpenRouter.MaxElapsed,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize OpenRouter client: ", err)
		return
	}

	// 5. Google Workspace context (optional)
	var workspace orchestrator.ContextProvider
	gwClient, err := gworkspace.NewClientFromConfig(ctx, gworkspace.Config{
		CredentialsPath: cfg.Google.CredentialsPath,
		TokenPath:       cfg.Google.TokenPath,
		CalendarID:      cfg.Google.CalendarID,
		Timezone:        cfg.Environment.Timezone,
	})
	if err != nil {
		logger.Warnf(ctx, "Google Workspace not available (optional): %v", err)
		logger.Warn(ctx, "→ Run `go run cmd/gcal-auth/main.go` to generate token.json")
	} else {
		workspace = gwClient
		logger.Info(ctx, "Google Workspace initialized")
	}

	// 6. Conversation memory
	mem, err := memory.New(cfg.Memory.MaxMessages, cfg.Memory.MaxUsers)
	if err != nil {
		logger.Error(ctx, "Failed to initialize memory: ", err)
		return
	}

	// 7. Task store
	taskRepo, err := fileRepo.New(cfg.Storage.DataDir)
	if err != nil {
		logger.Error(ctx, "Failed to initialize task repository: ", err)
		return
	}
	tasks := taskUC.New(logger, taskRepo)

	// 8. Notification scheduler
	sched, err := scheduler.New(logger, scheduler.Config{
		MinInterval: cfg.Scheduler.MinInterval,
		MaxInterval: cfg.Scheduler.MaxInterval,
		WindowStart: cfg.Scheduler.WindowStart,
		WindowEnd:   cfg.Scheduler.WindowEnd,
		Location:    loc,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize scheduler: ", err)
		return
	}
	defer sched.StopAll()

	// 9. Chat orchestrator
	orch := orchestrator.New(logger, llmClient, mem, tasks, workspace, cfg.Persona.SystemPrompt, loc)

	// 10. Telegram delivery handler
	dateMathParser, err := datemath.NewParser(cfg.Environment.Timezone)
	if err != nil {
		dateMathParser, _ = datemath.NewParser("UTC")
	}
	telegramHandler := tgDelivery.New(logger, orch, tasks, telegramBot, sched, dateMathParser, cfg.Telegram.AllowedChatID)

	// 11. Register webhook: auto-detect ngrok or fall back to manual config
	webhookURL := cfg.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
		if ngrokErr != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
		} else {
			webhookURL = ngrokURL + "/webhook/telegram"
			logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
		}
	}
	if webhookURL != "" {
		if whErr := telegramBot.SetWebhook(ctx, webhookURL); whErr != nil {
			logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
		} else {
			logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
		}
	}

	// 12. HTTP server
	httpServer, err := httpserver.New(httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 13. Run until SIGINT/SIGTERM
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
