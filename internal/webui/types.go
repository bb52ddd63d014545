// Package webui is the client for the AI Corp WebUI chat-completion API.
//
// It covers the full request path: validation and payload assembly, the
// single-attempt HTTP transport, and classification of the response into a
// completion or a typed error. No call is ever retried.
package webui

import (
	"fmt"
	"time"
)

// Message roles accepted in a structured chat request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a structured chat request. Content must be
// non-empty after trimming; a message failing that invalidates the whole
// request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model is one entry of the provider's model list. ID is the authoritative
// identifier; DisplayName falls back to ID when the provider omits a name.
type Model struct {
	ID          string
	DisplayName string
	OwnedBy     string
}

// Completion is a successful generation result. TokenCount is nil when the
// provider omitted usage data, which is distinct from a reported zero.
type Completion struct {
	Content    string
	Model      string
	TokenCount *int
	Elapsed    time.Duration
}

// ProviderError reports a non-200 response from the provider. The body is
// kept as raw text whether or not it parses.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError reports a network-level failure: connection refused,
// timeout, DNS failure, or a 200 whose body does not parse (a broken proxy
// looks the same as a broken connection from here).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Validation failure reasons.
const (
	ReasonEmptyPrompt    = "prompt must be a non-empty string"
	ReasonEmptyMessages  = "messages list cannot be empty"
	ReasonEmptyContent   = "content cannot be empty"
	ReasonMissingContent = "message must have content"
)

// ValidationError reports a malformed prompt or message list. The request is
// never sent. Index is the offending message position, or -1 when the
// failure is not message-scoped.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("message %d: %s", e.Index, e.Reason)
	}
	return e.Reason
}
