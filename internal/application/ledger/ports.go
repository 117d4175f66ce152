package ledger

import (
	"context"
	"time"
)

// ProofStorage stores payment proof images outside the database
type ProofStorage interface {
	// Upload stores data under key
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a time-limited download URL for key
	PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ProofPolicy limits what residents may upload as a transfer proof
type ProofPolicy struct {
	MaxBytes      int64
	ContentTypes  []string
	PresignExpiry time.Duration
}

// DefaultProofPolicy accepts common image formats up to 5MB
func DefaultProofPolicy() ProofPolicy {
	return ProofPolicy{
		MaxBytes:      5 << 20,
		ContentTypes:  []string{"image/jpeg", "image/png", "image/webp"},
		PresignExpiry: 15 * time.Minute,
	}
}
