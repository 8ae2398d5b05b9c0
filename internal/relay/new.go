package relay

import (
	"chat-relay/pkg/log"
	"chat-relay/pkg/openai"
)

// Handler serves the widget-facing chat endpoint and forwards
// conversations to the upstream completion API.
type Handler struct {
	l           log.Logger
	upstream    openai.IClient
	limiter     *rateLimiter
	maxTokens   int
	temperature float64
}

// Config holds the relay handler settings.
type Config struct {
	MaxTokens       int
	Temperature     float64
	RateLimitPerMin int
}

func NewHandler(l log.Logger, upstream openai.IClient, cfg Config) *Handler {
	return &Handler{
		l:           l,
		upstream:    upstream,
		limiter:     newRateLimiter(cfg.RateLimitPerMin),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}
