package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// Notification listing bounds.
const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
)

// NotificationServiceConfig wires the notification inbox.
type NotificationServiceConfig struct {
	Store  ports.NotificationStore
	Logger *slog.Logger
}

// NotificationService is the recipient's inbox. Recipients only ever touch their own notifications.
type NotificationService struct {
	store  ports.NotificationStore
	logger *slog.Logger
}

// NewNotificationService creates the inbox service.
func NewNotificationService(cfg NotificationServiceConfig) *NotificationService {
	if cfg.Store == nil {
		panic("app: NotificationServiceConfig.Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{
		store:  cfg.Store,
		logger: logger.With(slog.String("component", "app.NotificationService")),
	}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	limit = min(limit, MaxNotificationLimit)

	items, err := s.store.ListNotifications(ctx, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	return items, nil
}

// UnreadCount returns how many notifications the recipient has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	n, err := s.store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}

	return n, nil
}

// MarkRead flags one notification. Someone else's notification reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id int64) error {
	if err := s.store.MarkRead(ctx, id, recipientID); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	return nil
}

// MarkAllRead flags every unread notification of the recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID int64) (int, error) {
	n, err := s.store.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "notifications marked read",
		slog.Int64("recipient_id", recipientID),
		slog.Int("count", n),
	)

	return n, nil
}
