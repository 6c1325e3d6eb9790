package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// errNoAttempts is returned by attemptInOrder when there is nothing to try.
var errNoAttempts = errors.New("no attempts configured")

// attemptInOrder runs fn for each name in order and returns the first successful result
// together with the name that produced it. Attempts run strictly one after another.
// When every attempt fails the returned error joins all individual failures.
func attemptInOrder[T any](ctx context.Context, what string, names []string, fn func(ctx context.Context, name string) (T, error)) (T, string, error) {
	var zero T
	if len(names) == 0 {
		return zero, "", fmt.Errorf("%s: %w", what, errNoAttempts)
	}

	errs := make([]error, 0, len(names))
	for i, name := range names {
		out, err := fn(ctx, name)
		if err == nil {
			if i > 0 {
				slog.Info("fallback attempt succeeded", "what", what, "name", name, "attempt", i+1)
			}
			return out, name, nil
		}
		slog.Warn("fallback attempt failed", "what", what, "name", name, "attempt", i+1, "of", len(names), "error", err)
		errs = append(errs, fmt.Errorf("%s %q: %w", what, name, err))
	}
	return zero, "", errors.Join(errs...)
}

// orElse runs primary and falls through to secondary when primary fails.
// The primary error is handed to onFallback and never returned; a secondary failure is terminal.
func orElse[T any](ctx context.Context, primary, secondary func(ctx context.Context) (T, error), onFallback func(err error)) (T, error) {
	out, err := primary(ctx)
	if err == nil {
		return out, nil
	}
	if onFallback != nil {
		onFallback(err)
	}
	return secondary(ctx)
}
