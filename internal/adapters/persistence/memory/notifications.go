package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// SaveNotifications implements ports.NotificationStore.
func (s *Store) SaveNotifications(ctx context.Context, batch []domain.Notification) ([]domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("save notifications", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]domain.Notification, 0, len(batch))
	for _, n := range batch {
		s.lastNotificationID++
		n.ID = s.lastNotificationID
		s.notifications[n.ID] = n
		saved = append(saved, n)
	}

	return saved, nil
}

// ListNotifications implements ports.NotificationStore.
func (s *Store) ListNotifications(_ context.Context, recipientID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	out := make([]domain.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// CountUnread implements ports.NotificationStore.
func (s *Store) CountUnread(_ context.Context, recipientID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}

	return count, nil
}

// MarkRead implements ports.NotificationStore.
func (s *Store) MarkRead(_ context.Context, id, recipientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return domain.NewNotFoundError("notification", strconv.FormatInt(id, 10))
	}
	n.Read = true
	s.notifications[id] = n

	return nil
}

// MarkAllRead implements ports.NotificationStore.
func (s *Store) MarkAllRead(_ context.Context, recipientID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flipped := 0
	for id, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			s.notifications[id] = n
			flipped++
		}
	}

	return flipped, nil
}
