// Package llm provides chat-completion clients for the providers the
// generator can talk to. All providers are exposed behind the Client
// interface; the pipeline never knows which one it is using.
package llm

import (
	"context"
	"fmt"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TransportError reports a failed LLM call: network failure, auth rejection,
// rate limiting, or a malformed provider response. Callers that want to
// degrade gracefully instead of aborting should test for it with errors.As.
type TransportError struct {
	Provider string
	Status   int // HTTP status when applicable, 0 otherwise
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// transportErr wraps err in a TransportError for the given provider.
func transportErr(provider string, status int, err error) error {
	return &TransportError{Provider: provider, Status: status, Err: err}
}
