package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chat-relay/config"
	"chat-relay/internal/chat"
	"chat-relay/pkg/credential"
	"chat-relay/pkg/log"
)

// main is a terminal stand-in for the widget UI: one conversation, one
// send at a time, replies printed with their newlines intact.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := credential.NewProber(
		credential.Static(cfg.Fallback.APIKey),
		credential.Env{"OPENAI_API_KEY", "CHAT_FALLBACK_API_KEY"},
		credential.DotEnv{Keys: []string{"OPENAI_API_KEY"}},
		credential.File(cfg.Fallback.KeyFile),
	)

	client, err := chat.New(chat.Config{
		Logger:        logger,
		ProxyEndpoint: cfg.Chat.ProxyEndpoint,
		SystemPrompt:  cfg.Chat.SystemPrompt,
		Greeting:      cfg.Chat.Greeting,
		ProxyTimeout:  cfg.Chat.ProxyTimeout,
		DirectTimeout: cfg.Chat.DirectTimeout,
		Prober:        prober,
		Fallback: chat.Fallback{
			BaseURL:     cfg.Fallback.BaseURL,
			Model:       cfg.Fallback.Model,
			MaxTokens:   cfg.Fallback.MaxTokens,
			Temperature: cfg.Fallback.Temperature,
		},
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to create chat client: %v", err)
		return
	}

	// Print the canned greeting the same way the widget would.
	history := client.History()
	fmt.Println(history[len(history)-1].Content)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		text, err := client.Send(ctx, scanner.Text())
		if err != nil {
			if errors.Is(err, chat.ErrEmptyInput) {
				continue
			}
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(strings.TrimRight(text, "\n"))
	}
}
