// Package domain defines domain-level errors for the fooddetection feature.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by both provider capabilities.
var (
	// ErrProviderUnavailable indicates that a capability is not configured.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderCallFailed indicates a transport, auth or quota failure while calling a provider.
	ErrProviderCallFailed = errors.New("provider call failed")

	// ErrProviderResponseError indicates that the provider's response itself carries an error field.
	ErrProviderResponseError = errors.New("provider response error")

	// ErrEmptyAnswer is returned when a generative model answers with no text.
	ErrEmptyAnswer = errors.New("generative model returned an empty answer")
)

// ProviderError annotates a provider failure with the provider name and its kind.
// errors.Is matches both the kind sentinel and the underlying cause.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

// NewProviderError builds a ProviderError.
func NewProviderError(provider string, kind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
