package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned for any 401 response. Callers treat it
	// as the authoritative signal that the session is invalid.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries the HTTP status and the most specific message the error
// body offered.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Message extracts the best user-facing message from err, falling back
// to the provided generic string. Errors are never silently swallowed;
// this only decides what the toast says.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// bestMessage digs a human-readable message out of the error body. The
// backend is not consistent: the message may live at the top level, under
// "error", or inside a "data" wrapper.
func bestMessage(body []byte) string {
	var envelope struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	for _, nested := range []json.RawMessage{envelope.Error, envelope.Data} {
		if len(nested) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(nested, &s); err == nil && s != "" {
			return s
		}
		var inner struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(nested, &inner); err == nil && inner.Message != "" {
			return inner.Message
		}
	}
	return ""
}
