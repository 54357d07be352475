package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies gateway failures.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindStatus
	KindNotFound
	KindMalformed
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is the uniform failure returned by every gateway call.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus, KindNotFound:
		return fmt.Sprintf("%s %s: server returned %d: %s", e.Method, e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == KindNotFound
}

// KindOf returns the gateway kind of err, or 0 when err did not come from the gateway.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}

const maxMessageLen = 200

// serverMessage extracts a readable message from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	if msg == "" {
		msg = "no response body"
	}
	return msg
}
