package relay

import (
	"fmt"

	"chat-relay/pkg/openai"
)

var validRoles = map[string]bool{
	"system":    true,
	"user":      true,
	"assistant": true,
}

// chatRequest is the widget-facing wire format: the full conversation
// replayed on every turn.
type chatRequest struct {
	Messages []wireMessage `json:"messages"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (r *chatRequest) validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages must not be empty")
	}
	for i, m := range r.Messages {
		if !validRoles[m.Role] {
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role != "user" || last.Content == "" {
		return fmt.Errorf("conversation must end with a non-empty user message")
	}
	return nil
}

func (r *chatRequest) toUpstream() []openai.Message {
	out := make([]openai.Message, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = openai.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
