package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-relay/pkg/log"
	"chat-relay/pkg/openai"
)

// CredentialProber supplies the fallback credential on demand. The
// client never knows how credentials are physically retrieved.
type CredentialProber interface {
	Probe(ctx context.Context) (string, bool)
}

// Fallback holds the direct completion API settings used when the
// proxy fails.
type Fallback struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger log.Logger

	// ProxyEndpoint is the relay worker URL. Empty forces direct-only
	// mode.
	ProxyEndpoint string

	SystemPrompt string
	Greeting     string

	ProxyTimeout  time.Duration
	DirectTimeout time.Duration

	// Credential is the fallback API key. When empty, Prober is
	// consulted the first time the fallback path is needed.
	Credential string
	Prober     CredentialProber

	Fallback   Fallback
	HTTPClient *http.Client
}

// Client owns one ordered conversation and relays it to the remote
// completion service: proxy first, direct API fallback when the proxy
// fails and a credential is available.
//
// A Client expects one Send in flight at a time; callers serialize
// their sends. Behavior under concurrent Send calls is unspecified.
type Client struct {
	l log.Logger

	history []Message

	proxyEndpoint string
	proxyTimeout  time.Duration
	directTimeout time.Duration

	credential string
	prober     CredentialProber

	fallback   Fallback
	httpClient *http.Client
	direct     openai.IClient // built lazily once a credential is known
}

// New creates a conversation client seeded with the system persona and
// the canned assistant greeting.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, errors.New("chat: logger is required")
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.ProxyTimeout <= 0 {
		cfg.ProxyTimeout = DefaultProxyTimeout
	}
	if cfg.DirectTimeout <= 0 {
		cfg.DirectTimeout = DefaultDirectTimeout
	}
	if cfg.Fallback.MaxTokens <= 0 {
		cfg.Fallback.MaxTokens = DefaultFallbackMaxTokens
	}
	if cfg.Fallback.Temperature <= 0 {
		cfg.Fallback.Temperature = DefaultFallbackTemperature
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Client{
		l: cfg.Logger,
		history: []Message{
			{Role: RoleSystem, Content: cfg.SystemPrompt},
			{Role: RoleAssistant, Content: cfg.Greeting},
		},
		proxyEndpoint: cfg.ProxyEndpoint,
		proxyTimeout:  cfg.ProxyTimeout,
		directTimeout: cfg.DirectTimeout,
		credential:    cfg.Credential,
		prober:        cfg.Prober,
		fallback:      cfg.Fallback,
		httpClient:    cfg.HTTPClient,
	}, nil
}

// History returns a copy of the conversation so far.
func (c *Client) History() []Message {
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Send relays one user turn to the remote completion service and
// returns the assistant text.
//
// Empty or whitespace-only input returns ErrEmptyInput with no state
// change and no network call. Otherwise the user turn is appended to
// the history before any network attempt and is never rolled back; on
// failure the caller surfaces the error and the client stays usable
// for the next Send.
func (c *Client) Send(ctx context.Context, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", ErrEmptyInput
	}

	c.history = append(c.history, Message{Role: RoleUser, Content: userText})
	payload := wireRequest{Messages: c.History()}

	text, err := c.complete(ctx, payload)
	if err != nil {
		return "", err
	}

	c.history = append(c.history, Message{Role: RoleAssistant, Content: text})
	return text, nil
}

// complete runs the proxy-first, direct-fallback strategy on a payload.
// Only non-empty assistant text comes back error-free.
func (c *Client) complete(ctx context.Context, payload wireRequest) (string, error) {
	if c.proxyEndpoint == "" {
		return c.sendDirect(ctx, payload)
	}

	text, proxyErr := c.sendProxy(ctx, payload)
	if proxyErr == nil {
		if text != "" {
			return text, nil
		}
		proxyErr = ErrEmptyReply
	}

	// Fallback is gated strictly on credential availability, never on
	// the kind of proxy failure.
	if _, ok := c.resolveCredential(ctx); !ok {
		return "", &FallbackUnavailableError{ProxyErr: proxyErr}
	}

	c.l.Warnf(ctx, "proxy failed (%v), falling back to direct API", proxyErr)
	return c.sendDirect(ctx, payload)
}

// sendProxy POSTs the payload to the relay worker and normalizes the
// response.
func (c *Client) sendProxy(ctx context.Context, payload wireRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("chat: failed to marshal payload: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, c.proxyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pctx, http.MethodPost, c.proxyEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("chat: failed to create proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Covers network failures and the timeout-triggered abort alike.
		return "", fmt.Errorf("chat: proxy call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteError{
			Status: resp.StatusCode,
			Reason: openai.ExtractErrorMessage(raw, resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	return normalizeProxyBody(raw)
}

// sendDirect POSTs the same payload to the completion API with the
// fixed model and sampling parameters.
func (c *Client) sendDirect(ctx context.Context, payload wireRequest) (string, error) {
	key, ok := c.resolveCredential(ctx)
	if !ok {
		return "", ErrCredentialMissing
	}

	cli, err := c.directClient(key)
	if err != nil {
		return "", err
	}

	dctx, cancel := context.WithTimeout(ctx, c.directTimeout)
	defer cancel()

	messages := make([]openai.Message, len(payload.Messages))
	for i, m := range payload.Messages {
		messages[i] = openai.Message{Role: string(m.Role), Content: m.Content}
	}

	text, err := cli.ChatCompletion(dctx, &openai.Request{
		Messages:    messages,
		MaxTokens:   c.fallback.MaxTokens,
		Temperature: c.fallback.Temperature,
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// resolveCredential returns the configured credential, probing the
// alternate sources once when none was configured.
func (c *Client) resolveCredential(ctx context.Context) (string, bool) {
	if c.credential != "" {
		return c.credential, true
	}
	if c.prober == nil {
		return "", false
	}
	key, ok := c.prober.Probe(ctx)
	if ok {
		c.credential = key
	}
	return key, ok
}

func (c *Client) directClient(key string) (openai.IClient, error) {
	if c.direct != nil {
		return c.direct, nil
	}
	cli, err := openai.New(openai.Config{
		APIKey:     key,
		Model:      c.fallback.Model,
		BaseURL:    c.fallback.BaseURL,
		HTTPClient: c.httpClient,
	})
	if err != nil {
		return nil, err
	}
	c.direct = cli
	return cli, nil
}
