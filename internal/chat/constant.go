package chat

import "time"

const (
	// DefaultProxyTimeout bounds the proxy POST
	DefaultProxyTimeout = 8 * time.Second

	// DefaultDirectTimeout bounds the direct API POST; the direct path
	// gets a longer budget since there is nothing left to fall back to
	DefaultDirectTimeout = 12 * time.Second

	// DefaultFallbackMaxTokens caps the direct API output size
	DefaultFallbackMaxTokens = 500

	// DefaultFallbackTemperature keeps direct API sampling conservative
	DefaultFallbackTemperature = 0.2
)

const (
	// DefaultSystemPrompt seeds every conversation
	DefaultSystemPrompt = "You are a friendly, concise assistant embedded in a website chat widget. " +
		"Answer briefly and stay on topic."

	// DefaultGreeting is the canned assistant opener
	DefaultGreeting = "Hi! How can I help you today?"
)
