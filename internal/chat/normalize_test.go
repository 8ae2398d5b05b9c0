package chat

import (
	"errors"
	"testing"
)

func TestNormalizeProxyBody(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "assistant field",
			raw:  `{"assistant":"hi"}`,
			want: "hi",
		},
		{
			name: "choices content trimmed",
			raw:  `{"choices":[{"message":{"content":" hi  "}}]}`,
			want: "hi",
		},
		{
			name: "reply field",
			raw:  `{"reply":"hello"}`,
			want: "hello",
		},
		{
			name: "assistant wins over choices",
			raw:  `{"assistant":"a","choices":[{"message":{"content":"b"}}]}`,
			want: "a",
		},
		{
			name: "choices win over reply",
			raw:  `{"choices":[{"message":{"content":"b"}}],"reply":"c"}`,
			want: "b",
		},
		{
			name: "unrecognized object passes through serialized",
			raw:  `{"foo":1}`,
			want: `{"foo":1}`,
		},
		{
			name: "non-object JSON passes through serialized",
			raw:  `"hi"`,
			want: `"hi"`,
		},
		{
			name: "empty assistant field matches as empty",
			raw:  `{"assistant":""}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeProxyBody([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeProxyBodyErrors(t *testing.T) {
	t.Run("error object raised as remote error", func(t *testing.T) {
		_, err := normalizeProxyBody([]byte(`{"error":{"message":"boom"}}`))
		var remoteErr *RemoteError
		if !errors.As(err, &remoteErr) {
			t.Fatalf("expected RemoteError, got %v", err)
		}
		if remoteErr.Reason != "boom" {
			t.Errorf("expected reason 'boom', got %q", remoteErr.Reason)
		}
	})

	t.Run("error string raised as remote error", func(t *testing.T) {
		_, err := normalizeProxyBody([]byte(`{"error":"rate limited"}`))
		var remoteErr *RemoteError
		if !errors.As(err, &remoteErr) {
			t.Fatalf("expected RemoteError, got %v", err)
		}
		if remoteErr.Reason != "rate limited" {
			t.Errorf("expected reason 'rate limited', got %q", remoteErr.Reason)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := normalizeProxyBody([]byte(`{not json`))
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
	})
}
