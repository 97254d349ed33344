package ai

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no usable API credential was provided at startup.
	ErrNotConfigured = errors.New("ai: api key not configured")
	// ErrUnavailable means every model in the fallback list failed.
	ErrUnavailable = errors.New("ai: all models unavailable")
)

// AI is the inference port. It knows nothing about Telegram or the DB.
// deep selects the extended fallback model order.
type AI interface {
	Complete(ctx context.Context, prompt string, deep bool) (string, error)
}
