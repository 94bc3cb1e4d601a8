package postgres

import (
	"context"
	"iter"

	"github.com/jackc/pgx/v5"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

type historyWriter struct {
	tx querier
}

// Record implements ports.HistoryLedger.
func (w historyWriter) Record(ctx context.Context, e domain.HistoryEntry) (domain.HistoryEntry, error) {
	var from *string
	if e.FromStatus != nil {
		s := e.FromStatus.String()
		from = &s
	}

	err := w.tx.QueryRow(ctx, `
		INSERT INTO historico_cotacoes (cotacao_id, usuario_id, status_anterior, status_novo, observacoes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.QuotationID, e.ActorID, from, e.ToStatus.String(), e.Notes, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return domain.HistoryEntry{}, mapError("insert history entry", "quotation", e.QuotationID, err)
	}

	return e, nil
}

// HistoryFor implements ports.HistoryReader. Rows are streamed from the cursor;
// breaking out of the loop closes it.
func (s *Store) HistoryFor(ctx context.Context, quotationID int64) iter.Seq2[domain.HistoryEntry, error] {
	return func(yield func(domain.HistoryEntry, error) bool) {
		rows, err := s.pool.Query(ctx, `
			SELECT id, cotacao_id, usuario_id, status_anterior, status_novo, observacoes, created_at
			FROM historico_cotacoes
			WHERE cotacao_id = $1
			ORDER BY created_at DESC, id DESC`, quotationID)
		if err != nil {
			yield(domain.HistoryEntry{}, storageError("query history", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanHistory(rows)
			if err != nil {
				yield(domain.HistoryEntry{}, storageError("scan history", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.HistoryEntry{}, storageError("query history", err))
		}
	}
}

func scanHistory(row pgx.Row) (domain.HistoryEntry, error) {
	var (
		e    domain.HistoryEntry
		from *string
		to   string
	)
	if err := row.Scan(&e.ID, &e.QuotationID, &e.ActorID, &from, &to, &e.Notes, &e.CreatedAt); err != nil {
		return domain.HistoryEntry{}, err
	}

	st, err := domain.ParseStatus(to)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	e.ToStatus = st

	if from != nil {
		prev, err := domain.ParseStatus(*from)
		if err != nil {
			return domain.HistoryEntry{}, err
		}
		e.FromStatus = &prev
	}

	return e, nil
}
