package storage

import (
	"context"
	"fmt"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewProofStorage builds the configured proof store. The s3 provider makes
// sure its bucket exists before returning.
func NewProofStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (ledger.ProofStorage, error) {
	switch cfg.Provider {
	case "s3":
		store, err := NewS3ProofStore(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Proof storage ready", zap.String("provider", "s3"), zap.String("bucket", store.Bucket()))
		return store, nil
	case "memory", "":
		logger.Warn("Using in-memory proof storage; uploaded proofs are lost on restart")
		return NewMemoryProofStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
