package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name   string
		status string
		body   string
		want   string
	}{
		{
			name:   "empty body falls back to status",
			status: "400 Bad Request",
			body:   "",
			want:   "400 Bad Request",
		},
		{
			name:   "json string body is the message",
			status: "400 Bad Request",
			body:   `"Out of stock"`,
			want:   "Out of stock",
		},
		{
			name:   "message field preferred",
			status: "400 Bad Request",
			body:   `{"message":"Bottle already shared","title":"Bad Request"}`,
			want:   "Bottle already shared",
		},
		{
			name:   "title when message absent",
			status: "400 Bad Request",
			body:   `{"title":"One or more validation errors occurred."}`,
			want:   "One or more validation errors occurred.",
		},
		{
			name:   "first errors entry in key order",
			status: "400 Bad Request",
			body:   `{"errors":{"recipientUserIds":["Pick at least one recipient."],"existingBottleIds":["Unknown bottle id."]}}`,
			want:   "Unknown bottle id.",
		},
		{
			name:   "errors entry with empty list skipped",
			status: "400 Bad Request",
			body:   `{"errors":{"a":[],"b":["Second field wins."]}}`,
			want:   "Second field wins.",
		},
		{
			name:   "structured body with nothing usable",
			status: "400 Bad Request",
			body:   `{"errors":{}}`,
			want:   "400 Bad Request",
		},
		{
			name:   "short plain text surfaced",
			status: "502 Bad Gateway",
			body:   "upstream unavailable",
			want:   "upstream unavailable",
		},
		{
			name:   "html error page suppressed",
			status: "502 Bad Gateway",
			body:   "<html><body>Bad Gateway</body></html>",
			want:   "502 Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMessage(tt.status, []byte(tt.body))
			if got != tt.want {
				t.Errorf("ExtractMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}

	apiErr := &APIError{Type: ErrTypeHTTP, Message: "Out of stock"}
	wrapped := fmt.Errorf("sharing failed: %w", apiErr)
	if got := Message(wrapped); got != "Out of stock" {
		t.Errorf("Message(wrapped APIError) = %q, want extracted message", got)
	}

	plain := errors.New("connection reset")
	if got := Message(plain); got != "connection reset" {
		t.Errorf("Message(plain) = %q", got)
	}
}

func TestRetryableClassification(t *testing.T) {
	if !IsRetryable(newNetworkError("boom", nil)) {
		t.Error("network errors should be retryable")
	}
	if IsRetryable(newAuthError("nope")) {
		t.Error("auth errors should not be retryable")
	}
	if IsRetryable(newHTTPError(400, "400 Bad Request", nil)) {
		t.Error("client errors should not be retryable")
	}
	if !IsRetryable(newHTTPError(503, "503 Service Unavailable", nil)) {
		t.Error("server errors should be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("non-API errors should not be retryable")
	}
}

func TestIsAuth(t *testing.T) {
	if !IsAuth(newAuthError("bad token")) {
		t.Error("auth error not recognized")
	}
	if IsAuth(newNetworkError("boom", nil)) {
		t.Error("network error misclassified as auth")
	}
}
