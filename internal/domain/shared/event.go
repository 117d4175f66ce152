package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about a committed ledger change
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	// SubjectID is the fee or entry the event is about
	SubjectID() uuid.UUID
}

// BaseDomainEvent implements the DomainEvent accessors for embedding
type BaseDomainEvent struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	At      time.Time `json:"occurred_at"`
	Subject uuid.UUID `json:"subject_id"`
}

// NewBaseDomainEvent stamps an event of the given type about subjectID
func NewBaseDomainEvent(eventType string, subjectID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:      uuid.New(),
		Type:    eventType,
		At:      time.Now().UTC(),
		Subject: subjectID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.At }
func (e *BaseDomainEvent) SubjectID() uuid.UUID  { return e.Subject }

// EventHandler reacts to published events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; empty means all
	EventTypes() []string
}

// EventPublisher publishes domain events. Implementations must not surface
// handler failures to the publisher.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}
