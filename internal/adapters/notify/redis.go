package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// DefaultChannelPrefix is prepended to the recipient id to form the pub/sub channel.
const DefaultChannelPrefix = "brccsis:notifications:user:"

// Message is the JSON payload published for each notification.
type Message struct {
	ID          int64           `json:"id"`
	RecipientID int64           `json:"recipient_id"`
	QuotationID int64           `json:"quotation_id"`
	Category    domain.Category `json:"category"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RedisPublisher publishes notifications on one channel per recipient.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

var (
	_ ports.NotificationPublisher = (*RedisPublisher)(nil)
	_ ports.HealthChecker         = (*RedisPublisher)(nil)
)

// NewRedisPublisher creates a publisher. An empty prefix selects DefaultChannelPrefix.
func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel a recipient subscribes to.
func (p *RedisPublisher) Channel(recipientID int64) string {
	return p.prefix + strconv.FormatInt(recipientID, 10)
}

// Publish sends the batch in one pipeline.
func (p *RedisPublisher) Publish(ctx context.Context, batch []domain.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, n := range batch {
		payload, err := json.Marshal(Message{
			ID:          n.ID,
			RecipientID: n.RecipientID,
			QuotationID: n.QuotationID,
			Category:    n.Category,
			Title:       n.Title,
			Body:        n.Body,
			CreatedAt:   n.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("encoding notification %d: %w", n.ID, err)
		}
		pipe.Publish(ctx, p.Channel(n.RecipientID), payload)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publishing to redis: %w", err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (p *RedisPublisher) Name() string { return "redis" }

// Check implements ports.HealthChecker.
func (p *RedisPublisher) Check(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
