package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/notification"
)

// NotificationModel is the persistence model for the notification inbox
type NotificationModel struct {
	BaseModel
	UserID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	Title    string                `gorm:"type:varchar(200);not null"`
	Message  string                `gorm:"type:text"`
	Severity notification.Severity `gorm:"type:varchar(10);not null"`
	ReadAt   *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Title:      m.Title,
		Message:    m.Message,
		Severity:   m.Severity,
		ReadAt:     m.ReadAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		UserID:   n.UserID,
		Title:    n.Title,
		Message:  n.Message,
		Severity: n.Severity,
		ReadAt:   n.ReadAt,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
