package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

// Keys of backend error payloads that carry a generic message, in preference order
var genericMessageKeys = []string{"detail", "message", "error"}

// APIError is every failure returned by the client.
// Status is zero for network failures.
type APIError struct {
	Status  int
	Message string

	// Field errors as sent by the backend; nested objects are flattened with dots ("profile.country")
	Fields map[string][]string

	// Raw response body, kept for callers that need backend specific payloads
	Body []byte

	// Set when a 401 could not be recovered by a refresh; Redirect is where the caller should send the user
	SessionExpired bool
	Redirect       string

	Err error

	messageKey string

	// Message is only the status text, the payload had no generic message
	statusText bool
}

func (e *APIError) Error() string {
	var b strings.Builder
	if e.Status == 0 {
		b.WriteString("backend unreachable")
	} else {
		fmt.Fprintf(&b, "backend responded %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets callers match the error against sentinels instead of status codes
func (e *APIError) Is(target error) bool {
	switch target {
	case apperrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	case apperrors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case apperrors.ErrSessionExpired:
		return e.SessionExpired
	default:
		return false
	}
}

// IsNetwork reports the request never got a response
func (e *APIError) IsNetwork() bool {
	return e.Status == 0
}

// FieldMessage returns the first message reported for field
func (e *APIError) FieldMessage(field string) (string, bool) {
	msgs := e.Fields[field]
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// FirstMessage walks keys in order and returns the first message found.
// Generic keys (detail, message, error) resolve to Message when the backend sent one.
func (e *APIError) FirstMessage(keys []string) (string, bool) {
	for _, key := range keys {
		if msg, ok := e.FieldMessage(key); ok {
			return msg, true
		}
		for _, generic := range genericMessageKeys {
			if key == generic && e.Message != "" && !e.statusText {
				return e.Message, true
			}
		}
	}
	return "", false
}

// FieldNames returns field names in stable order
func (e *APIError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *APIError) withSessionExpired(redirect string) *APIError {
	expired := *e
	expired.SessionExpired = true
	expired.Redirect = redirect
	return &expired
}

// newResponseError parses backend error payload. Non JSON bodies fall back to status text
func newResponseError(status int, body []byte) *APIError {
	e := &APIError{
		Status: status,
		Body:   body,
		Fields: map[string][]string{},
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		collectFields(e, "", payload)
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
		e.statusText = true
	}
	return e
}

func collectFields(e *APIError, prefix string, payload map[string]json.RawMessage) {
	for key, raw := range payload {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if prefix == "" && isGenericKey(key) {
				setGenericMessage(e, key, s)
				continue
			}
			e.Fields[name] = append(e.Fields[name], s)
			continue
		}

		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, item := range list {
				var msg string
				if err := json.Unmarshal(item, &msg); err == nil {
					e.Fields[name] = append(e.Fields[name], msg)
				}
			}
			continue
		}

		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			collectFields(e, name, nested)
		}
	}
}

func isGenericKey(key string) bool {
	for _, k := range genericMessageKeys {
		if k == key {
			return true
		}
	}
	return false
}

// setGenericMessage keeps the most preferred generic key regardless of map iteration order
func setGenericMessage(e *APIError, key string, msg string) {
	rank := func(k string) int {
		for i, g := range genericMessageKeys {
			if g == k {
				return i
			}
		}
		return len(genericMessageKeys)
	}

	if e.Message == "" || rank(key) < rank(e.messageKey) {
		e.Message = msg
		e.messageKey = key
	}
}
