package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/dto"
	"github.com/brchinacargo-glitch/BRCcSis/internal/app"
)

// NotificationHandler serves the acting user's inbox.
type NotificationHandler struct {
	service      *app.NotificationService
	defaultLimit int
}

// NewNotificationHandler creates a notification handler. defaultLimit applies
// when the query omits limit; zero defers to the service default.
func NewNotificationHandler(service *app.NotificationService, defaultLimit int) *NotificationHandler {
	return &NotificationHandler{service: service, defaultLimit: defaultLimit}
}

// RegisterNotificationRoutes mounts /notifications on rg.
func (h *NotificationHandler) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	n := rg.Group("/notifications")
	n.GET("", h.List)
	n.GET("/unread-count", h.UnreadCount)
	n.POST("/read-all", h.MarkAllRead)
	n.POST("/:id/read", h.MarkRead)
}

// List handles GET /api/v1/notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var q dto.NotificationQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindingError(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = h.defaultLimit
	}

	items, err := h.service.List(c.Request.Context(), actorID, q.UnreadOnly, q.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, dto.NewNotificationResponse))
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	n, err := h.service.UnreadCount(c.Request.Context(), actorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: n})
}

// MarkRead handles POST /api/v1/notifications/:id/read. Another user's
// notification answers 404.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actorID, id, ok := actorAndID(c)
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), actorID, id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), actorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MarkedResponse{Marked: n})
}
