package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"chat-relay/pkg/openai"
)

// mockLogger is a test implementation of the Logger interface
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

// mockUpstream is a test implementation of openai.IClient
type mockUpstream struct {
	text    string
	err     error
	lastReq *openai.Request
}

func (m *mockUpstream) ChatCompletion(ctx context.Context, req *openai.Request) (string, error) {
	m.lastReq = req
	return m.text, m.err
}

func (m *mockUpstream) Model() string { return "gpt-4o-mini" }

func setupHandler(upstream *mockUpstream, rpm int) *Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(&mockLogger{}, upstream, Config{
		MaxTokens:       500,
		Temperature:     0.2,
		RateLimitPerMin: rpm,
	})
}

func doChat(h *Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.HandleChat(c)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHandleChatSuccess(t *testing.T) {
	upstream := &mockUpstream{text: "hello there"}
	h := setupHandler(upstream, 6000)

	w := doChat(h, `{"messages":[{"role":"system","content":"persona"},{"role":"user","content":"hi"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["assistant"]; got != "hello there" {
		t.Errorf("expected assistant text, got %q", got)
	}

	if upstream.lastReq == nil {
		t.Fatal("upstream was not called")
	}
	if len(upstream.lastReq.Messages) != 2 {
		t.Errorf("expected full conversation forwarded, got %d messages", len(upstream.lastReq.Messages))
	}
	if upstream.lastReq.MaxTokens != 500 || upstream.lastReq.Temperature != 0.2 {
		t.Errorf("sampling parameters not applied: %+v", upstream.lastReq)
	}
}

func TestHandleChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{not json`},
		{name: "empty messages", body: `{"messages":[]}`},
		{name: "unknown role", body: `{"messages":[{"role":"robot","content":"hi"}]}`},
		{name: "last message not user", body: `{"messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`},
		{name: "last user message empty", body: `{"messages":[{"role":"user","content":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := &mockUpstream{text: "never"}
			h := setupHandler(upstream, 6000)

			w := doChat(h, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if upstream.lastReq != nil {
				t.Error("upstream must not be called for invalid requests")
			}
			if decodeBody(t, w)["error"] == "" {
				t.Error("error responses must carry an error field")
			}
		})
	}
}

func TestHandleChatUpstreamAPIError(t *testing.T) {
	upstream := &mockUpstream{err: &openai.APIError{
		StatusCode: http.StatusTooManyRequests,
		StatusText: "Too Many Requests",
		Body:       []byte(`{"error":{"message":"quota exhausted"}}`),
	}}
	h := setupHandler(upstream, 6000)

	w := doChat(h, `{"messages":[{"role":"user","content":"hi"}]}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "quota exhausted" {
		t.Errorf("expected extracted upstream message, got %q", got)
	}
}

func TestHandleChatUpstreamEmptyContent(t *testing.T) {
	h := setupHandler(&mockUpstream{text: ""}, 6000)

	w := doChat(h, `{"messages":[{"role":"user","content":"hi"}]}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "upstream returned no content" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestHandleChatRateLimit(t *testing.T) {
	// 10 req/min yields a burst of 1: the second immediate request from
	// the same source must be rejected.
	h := setupHandler(&mockUpstream{text: "ok"}, 10)

	first := doChat(h, `{"messages":[{"role":"user","content":"hi"}]}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", first.Code)
	}

	second := doChat(h, `{"messages":[{"role":"user","content":"hi"}]}`)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if got := decodeBody(t, second)["error"]; got != "rate limit exceeded" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "x-forwarded-for first hop",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remote:  "10.0.0.2:1234",
			want:    "203.0.113.7",
		},
		{
			name:    "x-real-ip",
			headers: map[string]string{"X-Real-IP": "203.0.113.9"},
			remote:  "10.0.0.2:1234",
			want:    "203.0.113.9",
		},
		{
			name:   "remote addr",
			remote: "192.0.2.4:5678",
			want:   "192.0.2.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
