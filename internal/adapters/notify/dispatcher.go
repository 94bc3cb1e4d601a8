// Package notify turns committed transitions into stored notifications and
// pushes them to live subscribers.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// DispatcherConfig wires the dispatcher.
type DispatcherConfig struct {
	Store ports.NotificationStore

	// Publisher is optional. Without it notifications are only stored.
	Publisher ports.NotificationPublisher

	Clock  func() time.Time
	Logger *slog.Logger
}

// Dispatcher implements ports.NotificationDispatcher.
type Dispatcher struct {
	store     ports.NotificationStore
	publisher ports.NotificationPublisher
	clock     func() time.Time
	logger    *slog.Logger
}

var _ ports.NotificationDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. Store is required.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Store == nil {
		panic("notify: DispatcherConfig.Store is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		clock:     clock,
		logger:    logger.With(slog.String("component", "notify.Dispatcher")),
	}
}

// Notify stores one notification per distinct recipient, then publishes the stored batch.
// A publish failure is returned after the batch is already stored.
func (d *Dispatcher) Notify(ctx context.Context, notice ports.Notice) error {
	recipients := slices.Clone(notice.Recipients)
	slices.Sort(recipients)
	recipients = slices.Compact(recipients)
	if len(recipients) == 0 {
		return nil
	}

	title, body := domain.Compose(notice.Transition, &notice.Quotation, notice.Parties)
	now := d.clock().UTC()

	batch := make([]domain.Notification, 0, len(recipients))
	for _, id := range recipients {
		batch = append(batch, domain.Notification{
			RecipientID: id,
			QuotationID: notice.Quotation.ID,
			Category:    notice.Transition.Category,
			Title:       title,
			Body:        body,
			CreatedAt:   now,
		})
	}

	saved, err := d.store.SaveNotifications(ctx, batch)
	if err != nil {
		return fmt.Errorf("saving notifications: %w", err)
	}

	logging.FromContextOr(ctx, d.logger).DebugContext(ctx, "notifications stored",
		slog.Int64("quotation_id", notice.Quotation.ID),
		slog.String("category", string(notice.Transition.Category)),
		slog.Int("recipients", len(saved)),
	)

	if d.publisher == nil {
		return nil
	}
	if err := d.publisher.Publish(ctx, saved); err != nil {
		return fmt.Errorf("publishing notifications: %w", err)
	}

	return nil
}
