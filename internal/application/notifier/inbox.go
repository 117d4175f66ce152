package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/notification"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// InboxSink stores notices in the notification inbox
type InboxSink struct {
	repo notification.Repository
}

// NewInboxSink creates a new InboxSink
func NewInboxSink(repo notification.Repository) *InboxSink {
	return &InboxSink{repo: repo}
}

// Send validates and stores a notice
func (s *InboxSink) Send(ctx context.Context, notice notification.Notice) error {
	n, err := notification.NewNotification(notice)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, n)
}

// InboxService lets a user read their own notifications
type InboxService struct {
	repo notification.Repository
	now  func() time.Time
}

// NewInboxService creates a new InboxService
func NewInboxService(repo notification.Repository) *InboxService {
	return &InboxService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns one page of the principal's notifications, newest first
func (s *InboxService) List(ctx context.Context, p identity.Principal, unreadOnly bool, filter shared.Filter) ([]notification.Notification, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.ListForUser(ctx, p.UserID, unreadOnly, filter)
}

// MarkRead marks one of the principal's notifications as read
func (s *InboxService) MarkRead(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, p.UserID, id, s.now())
}

var _ notification.Sink = (*InboxSink)(nil)
