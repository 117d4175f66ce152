// Package cache keeps Idempotency-Key state for replayable payment requests,
// in Redis when configured and in process memory otherwise.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotReserved is returned when completing or releasing a key nobody holds
var ErrNotReserved = errors.New("idempotency key is not reserved")

// StoredResponse is the response replayed for a repeated Idempotency-Key
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore tracks request keys through reserve, then complete or release.
// A reserved key without a response means the first request is still running.
type IdempotencyStore interface {
	// Reserve claims a key. It returns false when the key is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Lookup returns the stored response for a key; nil with found=true
	// means the key is reserved but still in flight.
	Lookup(ctx context.Context, key string) (resp *StoredResponse, found bool, err error)

	// Complete stores the final response for a reserved key
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error

	// Release frees a reserved key so the client may retry
	Release(ctx context.Context, key string) error

	Close() error
}
