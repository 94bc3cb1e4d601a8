package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// unitOfWork wraps one read-committed transaction.
type unitOfWork struct {
	tx pgx.Tx
}

// Begin implements ports.Transactor.
func (s *Store) Begin(ctx context.Context) (ports.UnitOfWork, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, storageError("begin transaction", err)
	}

	return &unitOfWork{tx: tx}, nil
}

func (u *unitOfWork) Quotations() ports.QuotationRepository { return quotationWriter{tx: u.tx} }
func (u *unitOfWork) History() ports.HistoryLedger          { return historyWriter{tx: u.tx} }
func (u *unitOfWork) Audit() ports.AuditLog                 { return auditWriter{tx: u.tx} }

// Commit implements ports.UnitOfWork.
func (u *unitOfWork) Commit(ctx context.Context) error {
	return storageError("commit transaction", u.tx.Commit(ctx))
}

// Rollback implements ports.UnitOfWork. It is a no-op once the transaction has ended.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return storageError("rollback transaction", err)
}

type auditWriter struct {
	tx querier
}

// RecordAudit implements ports.AuditLog.
func (w auditWriter) RecordAudit(ctx context.Context, e domain.AuditEntry) error {
	var userID *int64
	if e.UserID != 0 {
		userID = &e.UserID
	}

	_, err := w.tx.Exec(ctx, `
		INSERT INTO logs_auditoria (usuario_id, acao, recurso, recurso_id, detalhes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, e.Action, e.Resource, e.ResourceID, e.Details, e.CreatedAt)

	return mapError("insert audit entry", "user", e.UserID, err)
}
