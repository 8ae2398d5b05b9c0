package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/config"
	"chat-relay/internal/httpserver"
	"chat-relay/internal/relay"
	"chat-relay/pkg/log"
	"chat-relay/pkg/openai"
)

// main is the entry point for the relay worker: the proxy the chat
// widget talks to. It accepts replayed conversations on /api/chat and
// forwards them to the configured upstream completion API.
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

	logger.Info(ctx, "Starting chat relay worker...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Upstream model: %s", cfg.Relay.UpstreamModel)

	// 3. Upstream completion client
	if cfg.Relay.UpstreamAPIKey == "" {
		logger.Error(ctx, "RELAY_UPSTREAM_API_KEY is not configured")
		return
	}

	upstream, err := openai.New(openai.Config{
		APIKey:     cfg.Relay.UpstreamAPIKey,
		Model:      cfg.Relay.UpstreamModel,
		BaseURL:    cfg.Relay.UpstreamBaseURL,
		HTTPClient: &http.Client{Timeout: openai.DefaultTimeout},
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to create upstream client: %v", err)
		return
	}

	// 4. Relay handler
	chatHandler := relay.NewHandler(logger, upstream, relay.Config{
		MaxTokens:       cfg.Relay.MaxTokens,
		Temperature:     cfg.Relay.Temperature,
		RateLimitPerMin: cfg.Relay.RateLimitPerMin,
	})

	// 5. HTTP server
	srv, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		ChatHandler: chatHandler,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to create HTTP server: %v", err)
		return
	}

	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		logger.Errorf(ctx, "HTTP server stopped: %v", err)
	}
}
