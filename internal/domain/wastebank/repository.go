package wastebank

import (
	"context"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// EntryFilter defines filtering options for ledger history
type EntryFilter struct {
	shared.Filter
	Neighborhood shared.Neighborhood // Required scope
	ResidentID   *uuid.UUID          // Filter by resident
	Kind         *EntryKind          // Filter by kind
}

// EntryRepository defines the interface for ledger entry persistence
type EntryRepository interface {
	// FindByID finds an entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindByIDForUpdate finds an entry and locks it for the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error)

	// List returns one page of entries, newest first, and the total match count
	List(ctx context.Context, filter EntryFilter) ([]Entry, int64, error)

	// Create inserts a new entry
	Create(ctx context.Context, entry *Entry) error

	// Update rewrites a deposit's measurements
	Update(ctx context.Context, entry *Entry) error

	// Delete removes an entry
	Delete(ctx context.Context, id uuid.UUID) error

	// SumByResident re-derives a resident's balance from the ledger
	SumByResident(ctx context.Context, residentID uuid.UUID) (int64, error)
}

// BalanceStore owns the cached balance scalar on the resident record.
// AdjustBalance is the only way the balance may change.
type BalanceStore interface {
	// AdjustBalance atomically adds delta to the balance if the result stays
	// at or above floor, and returns the new balance. It fails with
	// ErrBalanceBelowFloor when the condition rejects the update.
	AdjustBalance(ctx context.Context, residentID uuid.UUID, delta, floor int64) (int64, error)

	// GetBalance reads the cached balance
	GetBalance(ctx context.Context, residentID uuid.UUID) (int64, error)
}

// Reconciliation compares the cached balance with the ledger sum
type Reconciliation struct {
	ResidentID uuid.UUID `json:"resident_id"`
	Cached     int64     `json:"cached"`
	Ledger     int64     `json:"ledger"`
	Drift      int64     `json:"drift"`
}

// NewReconciliation builds a reconciliation result
func NewReconciliation(residentID uuid.UUID, cached, ledger int64) Reconciliation {
	return Reconciliation{ResidentID: residentID, Cached: cached, Ledger: ledger, Drift: cached - ledger}
}

// InSync reports whether cache and ledger agree
func (r Reconciliation) InSync() bool {
	return r.Drift == 0
}
