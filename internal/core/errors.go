package core

import (
	"errors"
	"fmt"
)

// Guard errors for the controller flows.
var (
	// ErrBusy means a create-entry flow is already in flight.
	ErrBusy = errors.New("a dream analysis is already in progress")
	// ErrChatBusy means a chat reply is already pending.
	ErrChatBusy = errors.New("a chat reply is already pending")
	// ErrNoSelection means a chat turn was attempted with no entry selected.
	ErrNoSelection = errors.New("no dream is selected")
	// ErrNoAnalysis means the selected entry has no analysis to ground the chat.
	ErrNoAnalysis = errors.New("the selected dream has no analysis yet")
)

// ProviderError wraps a failed Gemini call: network or auth failure,
// provider-side error, or a response that does not fit the requested
// shape.
type ProviderError struct {
	Op  string // "analysis", "image" or "chat"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini %s request failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
