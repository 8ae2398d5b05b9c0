package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// APIError is a non-success status response from a completion endpoint.
type APIError struct {
	StatusCode int
	StatusText string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: API error %d: %s", e.StatusCode, e.Message())
}

// Message extracts the human-readable error text from the response.
func (e *APIError) Message() string {
	return ExtractErrorMessage(e.Body, e.StatusCode, e.StatusText)
}

// ExtractErrorMessage pulls an error message out of a completion API
// response body. Recognized fields in priority order: a string "error"
// field, "error.message", a top-level "message", then the serialized
// body, then "<status> <statusText>".
func ExtractErrorMessage(body []byte, status int, statusText string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		switch v := payload["error"].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		return string(trimmed)
	}
	return fmt.Sprintf("%d %s", status, statusText)
}
