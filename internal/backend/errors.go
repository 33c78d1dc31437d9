package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the marketplace API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace api: %d: %s", e.StatusCode, e.Message)
}

// TransportError wraps failures that never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// decodeError surfaces {"error": "..."} or a plain-text body verbatim and
// falls back to the operation's generic message otherwise.
func decodeError(code int, body []byte, fallback string) *APIError {
	msg := fallback
	trimmed := strings.TrimSpace(string(body))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	switch {
	case trimmed == "":
	case json.Unmarshal(body, &payload) == nil:
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	case !strings.HasPrefix(trimmed, "<"):
		// plain string body, never an HTML error page
		msg = trimmed
	}
	return &APIError{StatusCode: code, Message: msg}
}
