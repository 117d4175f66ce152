package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/notifier"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/notification"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// NotificationHandler serves the caller's inbox
type NotificationHandler struct {
	BaseHandler
	inbox *notifier.InboxService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inbox *notifier.InboxService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// ListNotificationsQuery holds GET /notifications query parameters
type ListNotificationsQuery struct {
	Unread   bool `form:"unread"`
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse is an inbox item
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Severity  string     `json:"severity"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Severity:  string(n.Severity),
		Read:      n.ReadAt != nil,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var q ListNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}
	items, total, err := h.inbox.List(c.Request.Context(), p, q.Unread, shared.Filter{Page: q.Page, PageSize: q.PageSize})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = toNotificationResponse(&items[i])
	}
	h.SuccessWithMeta(c, out, total, q.Page, q.PageSize)
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inbox.MarkRead(c.Request.Context(), p, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "read": true})
}
