package wastebank

import (
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

const (
	EventTypeDepositRecorded = "WasteDepositRecorded"
	EventTypeDepositRevised  = "WasteDepositRevised"
	EventTypeDepositRemoved  = "WasteDepositRemoved"
)

// DepositEvent is raised after a committed change to a deposit. Delta is the
// balance movement it caused and NewBalance the balance after commit.
type DepositEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID `json:"entry_id"`
	ResidentID uuid.UUID `json:"resident_id"`
	WasteType  string    `json:"waste_type"`
	Weight     string    `json:"weight"`
	TotalValue int64     `json:"total_value"`
	Delta      int64     `json:"delta"`
	NewBalance int64     `json:"new_balance"`
}

// NewDepositEvent creates a DepositEvent of the given type
func NewDepositEvent(eventType string, e *Entry, delta, newBalance int64) *DepositEvent {
	return &DepositEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, e.ID),
		EntryID:         e.ID,
		ResidentID:      e.ResidentID,
		WasteType:       e.WasteType,
		Weight:          e.Weight.String(),
		TotalValue:      e.TotalValue,
		Delta:           delta,
		NewBalance:      newBalance,
	}
}
