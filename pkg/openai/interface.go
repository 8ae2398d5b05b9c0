package openai

import "context"

// IClient defines the interface for the OpenAI-compatible chat
// completion API. Implementations are safe for concurrent use.
type IClient interface {
	// ChatCompletion sends the full message history and returns the
	// assistant text of the first choice, trimmed. An empty string with
	// a nil error means the response carried no usable content.
	ChatCompletion(ctx context.Context, req *Request) (string, error)

	// Model returns the model being used
	Model() string
}

// New creates a new completion client with the given configuration
func New(cfg Config) (IClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newClientImpl(cfg), nil
}
