package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// FeeFilter defines filtering options for fee queries
type FeeFilter struct {
	shared.Filter
	Neighborhood shared.Neighborhood // Required scope
	ResidentID   *uuid.UUID          // Filter by resident
	Status       *FeeStatus          // Filter by status
	Month        *Month              // Filter by month
	Year         *int                // Filter by year
}

// FeeRepository defines the interface for fee persistence
type FeeRepository interface {
	// FindByID finds a fee by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Fee, error)

	// FindByIDForUpdate finds a fee by ID and locks the row for the
	// remainder of the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Fee, error)

	// ExistsForPeriod reports whether the resident already has a fee for the period
	ExistsForPeriod(ctx context.Context, residentID uuid.UUID, period Period) (bool, error)

	// List returns one page of fees, newest first, and the total match count
	List(ctx context.Context, filter FeeFilter) ([]Fee, int64, error)

	// Create inserts a new fee. A second fee for the same resident and period
	// fails with ErrDuplicatePeriod.
	Create(ctx context.Context, fee *Fee) error

	// SaveWithLock saves payment state with optimistic locking (version check).
	// The fee's Version must already be incremented past the loaded version.
	SaveWithLock(ctx context.Context, fee *Fee) error
}
