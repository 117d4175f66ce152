package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// Severity is the display tone of a notice
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IsValid checks if the severity is known
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Notice is a fire-and-forget message to one user
type Notice struct {
	UserID   uuid.UUID
	Title    string
	Message  string
	Severity Severity
}

// Validate checks the notice can be delivered
func (n Notice) Validate() error {
	if n.UserID == uuid.Nil {
		return shared.NewValidationError("INVALID_RECIPIENT", "Notice recipient is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return shared.NewValidationError("INVALID_TITLE", "Notice title is required")
	}
	if !n.Severity.IsValid() {
		return shared.NewValidationError("INVALID_SEVERITY", "Unknown notice severity")
	}
	return nil
}

// Sink accepts notices. Callers treat every error as non-fatal.
type Sink interface {
	Send(ctx context.Context, notice Notice) error
}

// Notification is a delivered notice stored in a user's inbox
type Notification struct {
	shared.BaseEntity
	UserID   uuid.UUID
	Title    string
	Message  string
	Severity Severity
	ReadAt   *time.Time
}

// NewNotification stores a validated notice
func NewNotification(n Notice) (*Notification, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     n.UserID,
		Title:      n.Title,
		Message:    n.Message,
		Severity:   n.Severity,
	}, nil
}

// IsRead reports whether the user has opened the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// ErrNotificationNotFound is returned for unknown or foreign notifications
var ErrNotificationNotFound = shared.NewNotFoundError("NOTIFICATION_NOT_FOUND", "Notification not found")

// Repository persists the notification inbox
type Repository interface {
	// Create stores a notification
	Create(ctx context.Context, n *Notification) error

	// ListForUser returns one page of a user's notifications, newest first
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]Notification, int64, error)

	// MarkRead marks a user's notification as read
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error
}
