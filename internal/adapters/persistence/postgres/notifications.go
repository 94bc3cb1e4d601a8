package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// SaveNotifications implements ports.NotificationStore. The batch is written in
// one transaction so recipients never see a partial fan-out.
func (s *Store) SaveNotifications(ctx context.Context, batch []domain.Notification) ([]domain.Notification, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storageError("begin notifications", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := make([]domain.Notification, len(batch))
	for i, n := range batch {
		err := tx.QueryRow(ctx, `
			INSERT INTO notificacoes (usuario_id, cotacao_id, tipo, titulo, mensagem, lida, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			n.RecipientID, n.QuotationID, string(n.Category), n.Title, n.Body, n.Read, n.CreatedAt,
		).Scan(&n.ID)
		if err != nil {
			return nil, mapError("insert notification", "user", n.RecipientID, err)
		}
		saved[i] = n
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageError("commit notifications", err)
	}

	return saved, nil
}

// ListNotifications implements ports.NotificationStore.
func (s *Store) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, usuario_id, cotacao_id, tipo, titulo, mensagem, lida, created_at
		FROM notificacoes
		WHERE usuario_id = $1 AND (NOT $2 OR NOT lida)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, storageError("list notifications", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Notification, error) {
		var (
			n        domain.Notification
			category string
		)
		err := row.Scan(&n.ID, &n.RecipientID, &n.QuotationID, &category, &n.Title, &n.Body, &n.Read, &n.CreatedAt)
		n.Category = domain.Category(category)

		return n, err
	})
	if err != nil {
		return nil, storageError("list notifications", err)
	}

	return list, nil
}

// CountUnread implements ports.NotificationStore.
func (s *Store) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM notificacoes WHERE usuario_id = $1 AND NOT lida`, recipientID).Scan(&n)

	return n, storageError("count unread notifications", err)
}

// MarkRead implements ports.NotificationStore.
func (s *Store) MarkRead(ctx context.Context, id, recipientID int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notificacoes SET lida = TRUE WHERE id = $1 AND usuario_id = $2`, id, recipientID)
	if err != nil {
		return storageError("mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("notification", strconv.FormatInt(id, 10))
	}

	return nil
}

// MarkAllRead implements ports.NotificationStore.
func (s *Store) MarkAllRead(ctx context.Context, recipientID int64) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notificacoes SET lida = TRUE WHERE usuario_id = $1 AND NOT lida`, recipientID)
	if err != nil {
		return 0, storageError("mark notifications read", err)
	}

	return int(tag.RowsAffected()), nil
}
