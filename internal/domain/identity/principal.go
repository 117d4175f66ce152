package identity

import (
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// Role is the coarse role carried by an authenticated principal
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleResident
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated caller as supplied by the identity provider.
// ResidentID is set only for residents and links the login to its registry row.
type Principal struct {
	UserID       uuid.UUID
	Role         Role
	Neighborhood shared.Neighborhood
	ResidentID   *uuid.UUID
}

// IsAdmin reports whether the principal has the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsResident reports whether the principal has the resident role
func (p Principal) IsResident() bool {
	return p.Role == RoleResident
}

// Validate checks the principal is well formed
func (p Principal) Validate() error {
	if p.UserID == uuid.Nil {
		return shared.NewAuthorizationError("UNAUTHENTICATED", "Authentication is required")
	}
	if !p.Role.IsValid() {
		return shared.NewAuthorizationError("INVALID_ROLE", "Unknown role")
	}
	if p.Neighborhood.IsZero() {
		return shared.NewAuthorizationError("MISSING_NEIGHBORHOOD", "Principal has no RT/RW assignment")
	}
	if p.IsResident() && (p.ResidentID == nil || *p.ResidentID == uuid.Nil) {
		return shared.NewAuthorizationError("MISSING_RESIDENT", "Resident principal is not linked to a resident record")
	}
	return nil
}

// RequireAdmin fails unless the principal is a valid admin
func (p Principal) RequireAdmin() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// RequireResident fails unless the principal is a valid resident
func (p Principal) RequireResident() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsResident() {
		return ErrResidentRequired
	}
	return nil
}

// OwnsResident reports whether a resident principal is the given resident
func (p Principal) OwnsResident(residentID uuid.UUID) bool {
	return p.IsResident() && p.ResidentID != nil && *p.ResidentID == residentID
}

// Role errors
var (
	ErrAdminRequired    = shared.NewAuthorizationError("ADMIN_REQUIRED", "Only neighborhood admins may perform this action")
	ErrResidentRequired = shared.NewAuthorizationError("RESIDENT_REQUIRED", "Only residents may perform this action")
)
