package chat

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation. Messages are immutable once
// appended to the history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// wireRequest is the payload sent to the remote completion service:
// the full, order-preserved history with no extra fields.
type wireRequest struct {
	Messages []Message `json:"messages"`
}
