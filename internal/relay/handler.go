package relay

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/pkg/openai"
)

// HandleChat processes one widget turn: validate the replayed
// conversation, forward it upstream, answer {"assistant": ...}.
// Errors reply {"error": ...} so the widget-side normalizer can
// extract them.
func (h *Handler) HandleChat(c *gin.Context) {
	ctx := c.Request.Context()

	ip := clientIP(c.Request)
	if err := h.limiter.Allow(ip); err != nil {
		h.l.Warnf(ctx, "rate limit exceeded: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "malformed chat request from %s: %v", ip, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.upstream.ChatCompletion(ctx, &openai.Request{
		Messages:    req.toUpstream(),
		MaxTokens:   h.maxTokens,
		Temperature: h.temperature,
	})
	if err != nil {
		h.l.Errorf(ctx, "upstream completion failed: %v", err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream completion failed"})
		return
	}
	if text == "" {
		h.l.Errorf(ctx, "upstream returned empty content for %s", ip)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream returned no content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assistant": text})
}
