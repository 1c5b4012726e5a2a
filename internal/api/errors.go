package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the category of error that occurred while talking to
// the cellar server.
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused,
	// timeout, DNS failure).
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication failure (missing or rejected token).
	ErrTypeAuth
	// ErrTypeHTTP indicates a non-2xx response from the server.
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body.
	ErrTypeParse
	// ErrTypeUnknown indicates an unexpected error.
	ErrTypeUnknown
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error from the cellar server or the transport
// beneath it. Message always carries a human-readable description suitable
// for surfacing directly to the user.
type APIError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Err        error
	Retryable  bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error chain inspection.
func (e *APIError) Unwrap() error {
	return e.Err
}

// newNetworkError wraps a transport-level failure. Network errors are
// considered retryable.
func newNetworkError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

func newAuthError(message string) *APIError {
	return &APIError{
		Type:      ErrTypeAuth,
		Message:   message,
		Retryable: false,
	}
}

// newHTTPError builds an error for a non-2xx response, extracting the most
// useful human-readable message from the body. Server errors are retryable.
func newHTTPError(statusCode int, status string, body []byte) *APIError {
	return &APIError{
		Type:       ErrTypeHTTP,
		StatusCode: statusCode,
		Message:    ExtractMessage(status, body),
		Retryable:  statusCode >= 500,
	}
}

func newParseError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// IsRetryable reports whether the request that produced err may be retried.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeAuth
	}
	return false
}

// Message returns the human-readable message for err. For APIError values
// this is the extracted server message; for anything else it falls back to
// err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// errorBody is the shape of structured error payloads the server may return.
// Errors maps field names to lists of validation messages.
type errorBody struct {
	Message string              `json:"message"`
	Title   string              `json:"title"`
	Errors  map[string][]string `json:"errors"`
}

// ExtractMessage normalizes a failed response into a single human-readable
// message. Preference order: a plain string body, then the "message" field,
// then the "title" field, then the first entry of an "errors" map whose
// value is a non-empty list. Falls back to the HTTP status line.
func ExtractMessage(status string, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return status
	}

	// A JSON string body is the message itself.
	var asString string
	if err := json.Unmarshal([]byte(trimmed), &asString); err == nil {
		if s := strings.TrimSpace(asString); s != "" {
			return s
		}
		return status
	}

	var structured errorBody
	if err := json.Unmarshal([]byte(trimmed), &structured); err == nil {
		if s := strings.TrimSpace(structured.Message); s != "" {
			return s
		}
		if s := strings.TrimSpace(structured.Title); s != "" {
			return s
		}
		if len(structured.Errors) > 0 {
			// Map order is not stable in Go; take the first key in sorted
			// order so the surfaced message is deterministic.
			keys := make([]string, 0, len(structured.Errors))
			for k := range structured.Errors {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if msgs := structured.Errors[k]; len(msgs) > 0 {
					if s := strings.TrimSpace(msgs[0]); s != "" {
						return s
					}
				}
			}
		}
		return status
	}

	// Not JSON. Short plain-text bodies are worth surfacing; HTML error
	// pages are not.
	if !strings.HasPrefix(trimmed, "<") && len(trimmed) <= 200 {
		return trimmed
	}
	return status
}
