package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

const (
	EventTypeFeeCreated          = "FeeCreated"
	EventTypeFeePaymentSubmitted = "FeePaymentSubmitted"
	EventTypeFeePaymentVerified  = "FeePaymentVerified"
	EventTypeFeeSettled          = "FeeSettledWithBalance"
)

// FeeCreatedEvent is raised when an admin bills a resident
type FeeCreatedEvent struct {
	shared.BaseDomainEvent
	FeeID        uuid.UUID           `json:"fee_id"`
	ResidentID   uuid.UUID           `json:"resident_id"`
	Neighborhood shared.Neighborhood `json:"neighborhood"`
	Amount       int64               `json:"amount"`
	Period       string              `json:"period"`
}

// NewFeeCreatedEvent creates a new FeeCreatedEvent
func NewFeeCreatedEvent(f *Fee) *FeeCreatedEvent {
	return &FeeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeCreated, f.ID),
		FeeID:           f.ID,
		ResidentID:      f.ResidentID,
		Neighborhood:    f.Neighborhood,
		Amount:          f.Amount,
		Period:          f.Period.String(),
	}
}

// FeePaymentSubmittedEvent is raised when a resident uploads a transfer proof
type FeePaymentSubmittedEvent struct {
	shared.BaseDomainEvent
	FeeID        uuid.UUID           `json:"fee_id"`
	ResidentID   uuid.UUID           `json:"resident_id"`
	Neighborhood shared.Neighborhood `json:"neighborhood"`
	Amount       int64               `json:"amount"`
	Period       string              `json:"period"`
	Resubmitted  bool                `json:"resubmitted"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

// NewFeePaymentSubmittedEvent creates a new FeePaymentSubmittedEvent
func NewFeePaymentSubmittedEvent(f *Fee, resubmitted bool) *FeePaymentSubmittedEvent {
	submittedAt := time.Now().UTC()
	if f.PaidAt != nil {
		submittedAt = *f.PaidAt
	}
	return &FeePaymentSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeePaymentSubmitted, f.ID),
		FeeID:           f.ID,
		ResidentID:      f.ResidentID,
		Neighborhood:    f.Neighborhood,
		Amount:          f.Amount,
		Period:          f.Period.String(),
		Resubmitted:     resubmitted,
		SubmittedAt:     submittedAt,
	}
}

// FeePaymentVerifiedEvent is raised when an admin approves or rejects a transfer
type FeePaymentVerifiedEvent struct {
	shared.BaseDomainEvent
	FeeID      uuid.UUID `json:"fee_id"`
	ResidentID uuid.UUID `json:"resident_id"`
	Amount     int64     `json:"amount"`
	Period     string    `json:"period"`
	Approved   bool      `json:"approved"`
	Reason     string    `json:"reason,omitempty"`
	VerifiedBy uuid.UUID `json:"verified_by"`
}

// NewFeePaymentVerifiedEvent creates a new FeePaymentVerifiedEvent
func NewFeePaymentVerifiedEvent(f *Fee, adminID uuid.UUID, approved bool, reason string) *FeePaymentVerifiedEvent {
	return &FeePaymentVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeePaymentVerified, f.ID),
		FeeID:           f.ID,
		ResidentID:      f.ResidentID,
		Amount:          f.Amount,
		Period:          f.Period.String(),
		Approved:        approved,
		Reason:          reason,
		VerifiedBy:      adminID,
	}
}

// FeeSettledEvent is raised when a fee is paid from the waste bank balance
type FeeSettledEvent struct {
	shared.BaseDomainEvent
	FeeID        uuid.UUID           `json:"fee_id"`
	ResidentID   uuid.UUID           `json:"resident_id"`
	Neighborhood shared.Neighborhood `json:"neighborhood"`
	Amount       int64               `json:"amount"`
	Period       string              `json:"period"`
	NewBalance   int64               `json:"new_balance"`
}

// NewFeeSettledEvent creates a new FeeSettledEvent
func NewFeeSettledEvent(f *Fee, newBalance int64) *FeeSettledEvent {
	return &FeeSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeSettled, f.ID),
		FeeID:           f.ID,
		ResidentID:      f.ResidentID,
		Neighborhood:    f.Neighborhood,
		Amount:          f.Amount,
		Period:          f.Period.String(),
		NewBalance:      newBalance,
	}
}
