package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/notification"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create stores a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return wrapDBError(r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error)
}

// ListForUser returns one page of a user's notifications, newest first
func (r *GormNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]notification.Notification, int64, error) {
	page := filter.Normalize()
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("user_id = ?", userID)
		if unreadOnly {
			q = q.Where("read_at IS NULL")
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	var rows []models.NotificationModel
	if err := scope().Order("created_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// MarkRead marks a user's notification as read. Already-read notifications
// keep their original timestamp.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", at)
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&models.NotificationModel{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return wrapDBError(err)
	}
	if count == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
