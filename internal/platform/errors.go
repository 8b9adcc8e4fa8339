package platform

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound signals an id lookup that matched zero rows. Repositories
// translate it into their own sentinel so handlers can distinguish a 404
// from other upstream failures.
var ErrNotFound = errors.New("record not found")

// Error is a failure reported by the managed backend. The message is kept
// verbatim and surfaced to the caller unchanged; no retry is attempted.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// parseErrorBody extracts the human-readable message from a PostgREST or
// storage error payload, falling back to the raw body.
func parseErrorBody(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			return &Error{Status: status, Message: payload.Message}
		case payload.Error != "":
			return &Error{Status: status, Message: payload.Error}
		case payload.Msg != "":
			return &Error{Status: status, Message: payload.Msg}
		}
	}
	msg := string(body)
	if msg == "" {
		msg = fmt.Sprintf("platform request failed with status %d", status)
	}
	return &Error{Status: status, Message: msg}
}
