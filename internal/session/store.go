// Package session keeps per-visitor state server-side. The browser only holds
// a signed cookie carrying the session id.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store persists session values and one-shot flash messages by session id.
type Store interface {
	Load(ctx context.Context, id string) (map[string]string, error)
	Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error

	// PushFlash parks a value that PopFlash returns exactly once.
	PushFlash(ctx context.Context, id, key, value string, ttl time.Duration) error
	PopFlash(ctx context.Context, id, key string) (string, bool, error)
}
