package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken is returned by authenticated calls made without a bearer token.
var ErrNoToken = errors.New("no authentication token found")

// APIError is a failed remote call. Message is safe to show to the user;
// Err carries the underlying transport or decode failure when there is one.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// HTTPStatus maps the failure onto the status the storefront should answer
// with. Transport failures surface as 502.
func (e *APIError) HTTPStatus() int {
	if e.StatusCode == 0 {
		return http.StatusBadGateway
	}
	return e.StatusCode
}

// UserMessage is the text the browser shell may display.
func (e *APIError) UserMessage() string { return e.Message }

// IsStatus reports whether err is an APIError with the given remote status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type remoteError struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

// remoteMessage extracts the human readable reason from an error body.
func remoteMessage(body []byte) string {
	var re remoteError
	if err := json.Unmarshal(body, &re); err != nil {
		return ""
	}
	if m := strings.TrimSpace(re.Message); m != "" {
		return m
	}
	if m := strings.TrimSpace(re.Error); m != "" {
		return m
	}
	if len(re.Errors) > 0 {
		var list []string
		if err := json.Unmarshal(re.Errors, &list); err == nil && len(list) > 0 {
			return strings.Join(list, ", ")
		}
		var single string
		if err := json.Unmarshal(re.Errors, &single); err == nil {
			return strings.TrimSpace(single)
		}
	}
	return ""
}

func statusError(op, fallback string, status int, body []byte) *APIError {
	msg := remoteMessage(body)
	if msg == "" {
		msg = fallback
	}
	return &APIError{Op: op, StatusCode: status, Message: msg}
}
