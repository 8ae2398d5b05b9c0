package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"chat-relay/pkg/openai"
)

// proxyShape is one recognized success-response shape. extract returns
// the assistant text and whether the shape matched; an empty text with
// a match is meaningful (the caller treats it as an empty reply, not as
// "try the next shape").
type proxyShape struct {
	name    string
	extract func(body map[string]any) (string, bool)
}

// proxyShapes is the ordered normalization policy for success bodies
// from the proxy. First matching shape wins.
var proxyShapes = []proxyShape{
	{name: "assistant", extract: extractAssistant},
	{name: "choices", extract: extractChoicesContent},
	{name: "reply", extract: extractReply},
}

func extractAssistant(body map[string]any) (string, bool) {
	text, ok := body["assistant"].(string)
	return text, ok
}

func extractChoicesContent(body map[string]any) (string, bool) {
	choices, ok := body["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(content), true
}

func extractReply(body map[string]any) (string, bool) {
	text, ok := body["reply"].(string)
	return text, ok
}

// normalizeProxyBody turns a success-status proxy body into assistant
// text. Unrecognized shapes degrade to the serialized body; an explicit
// error field is raised as a RemoteError.
func normalizeProxyBody(raw []byte) (string, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	body, ok := parsed.(map[string]any)
	if !ok {
		// Valid JSON but not an object: pass the serialized body through.
		return string(raw), nil
	}

	for _, shape := range proxyShapes {
		if text, matched := shape.extract(body); matched {
			return text, nil
		}
	}

	if _, hasError := body["error"]; hasError {
		return "", &RemoteError{Reason: openai.ExtractErrorMessage(raw, 0, "")}
	}

	return string(raw), nil
}
