package resident

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// Resident is a household registered in a neighborhood. The waste bank
// balance is a cached scalar owned by the waste-bank ledger; nothing in this
// package mutates it.
type Resident struct {
	shared.BaseEntity
	UserID           *uuid.UUID
	Name             string
	HouseNumber      string
	Phone            string
	Neighborhood     shared.Neighborhood
	WasteBankBalance int64
}

// NewResident creates a resident record
func NewResident(name, houseNumber string, hood shared.Neighborhood) (*Resident, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Resident name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("INVALID_NAME", "Resident name cannot exceed 200 characters")
	}
	if hood.IsZero() {
		return nil, shared.NewValidationError("INVALID_NEIGHBORHOOD", "RT and RW are required")
	}
	return &Resident{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		HouseNumber:  strings.TrimSpace(houseNumber),
		Neighborhood: hood,
	}, nil
}

// LinkUser binds the resident to a login
func (r *Resident) LinkUser(userID uuid.UUID) {
	r.UserID = &userID
}

// BelongsTo reports whether the resident lives in the neighborhood
func (r *Resident) BelongsTo(hood shared.Neighborhood) bool {
	return r.Neighborhood.Equals(hood)
}

// ErrResidentNotFound is returned for unknown residents and for residents
// outside the caller's neighborhood alike.
var ErrResidentNotFound = shared.NewNotFoundError("NOT_FOUND", "Resident not found")

// Directory is the read side of the resident registry used by the ledger
type Directory interface {
	// FindByID finds a resident by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Resident, error)

	// FindByUserID finds the resident linked to a login
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Resident, error)

	// AdminUserIDs returns the user IDs of every admin of a neighborhood
	AdminUserIDs(ctx context.Context, hood shared.Neighborhood) ([]uuid.UUID, error)
}

// Repository extends the directory with writes for the thin registry
type Repository interface {
	Directory

	// Save creates or updates the profile fields of a resident, never the balance
	Save(ctx context.Context, r *Resident) error

	// AssignAdmin registers a user as admin of a neighborhood
	AssignAdmin(ctx context.Context, hood shared.Neighborhood, userID uuid.UUID) error
}
