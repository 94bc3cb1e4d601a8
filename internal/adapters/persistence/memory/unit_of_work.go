package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// errClosed is returned when a finished unit of work is used again.
var errClosed = errors.New("unit of work already finished")

// write is a staged mutation applied at commit, in staging order, under the store lock.
type write struct {
	description string
	apply       func(s *Store)
}

// unitOfWork stages writes and holds row locks until it finishes.
// It is used by a single goroutine.
type unitOfWork struct {
	store   *Store
	writes  []write
	held    map[int64]chan struct{}
	pending map[int64]domain.Quotation
	done    bool
}

// Begin implements ports.Transactor.
func (s *Store) Begin(ctx context.Context) (ports.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("begin", err)
	}

	return &unitOfWork{
		store:   s,
		held:    make(map[int64]chan struct{}),
		pending: make(map[int64]domain.Quotation),
	}, nil
}

func (u *unitOfWork) Quotations() ports.QuotationRepository { return (*quotationWriter)(u) }
func (u *unitOfWork) History() ports.HistoryLedger          { return (*historyWriter)(u) }
func (u *unitOfWork) Audit() ports.AuditLog                 { return (*auditWriter)(u) }

func (u *unitOfWork) stage(description string, apply func(s *Store)) error {
	if u.done {
		return domain.NewStorageError(description, errClosed)
	}
	u.writes = append(u.writes, write{description: description, apply: apply})

	return nil
}

// Commit applies every staged write atomically and releases row locks.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return domain.NewStorageError("commit", errClosed)
	}
	defer u.release()

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitFailure; err != nil {
		s.commitFailure = nil
		return domain.NewStorageError("commit", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("commit", err)
	}

	for _, w := range u.writes {
		w.apply(s)
	}

	return nil
}

// Rollback discards staged writes. It is a no-op once the unit of work finished.
func (u *unitOfWork) Rollback(context.Context) error {
	if u.done {
		return nil
	}
	u.release()

	return nil
}

func (u *unitOfWork) release() {
	u.done = true
	u.writes = nil
	for id, ch := range u.held {
		<-ch
		delete(u.held, id)
	}
}

type quotationWriter unitOfWork

// GetForUpdate blocks until the quotation's row lock is free or ctx ends.
func (w *quotationWriter) GetForUpdate(ctx context.Context, id int64) (domain.Quotation, error) {
	u := (*unitOfWork)(w)
	if u.done {
		return domain.Quotation{}, domain.NewStorageError("get for update", errClosed)
	}
	if q, ok := u.pending[id]; ok {
		return q.Clone(), nil
	}

	if _, ok := u.held[id]; !ok {
		lock := u.store.rowLock(id)
		select {
		case lock <- struct{}{}:
			u.held[id] = lock
		case <-ctx.Done():
			return domain.Quotation{}, domain.NewStorageError("lock quotation", ctx.Err())
		}
	}

	u.store.mu.RLock()
	q, ok := u.store.quotations[id]
	u.store.mu.RUnlock()
	if !ok {
		return domain.Quotation{}, domain.NewNotFoundError("quotation", strconv.FormatInt(id, 10))
	}

	return q.Clone(), nil
}

// Insert assigns the id and the yearly sequence number right away; ids burnt by a rollback are not reused.
func (w *quotationWriter) Insert(_ context.Context, q *domain.Quotation) error {
	u := (*unitOfWork)(w)
	if u.done {
		return domain.NewStorageError("insert quotation", errClosed)
	}

	s := u.store
	s.mu.Lock()
	s.lastQuotationID++
	q.ID = s.lastQuotationID
	year := q.CreatedAt.Year()
	s.yearSequence[year]++
	q.Number = domain.FormatQuotationNumber(year, s.yearSequence[year])
	s.mu.Unlock()

	snapshot := q.Clone()
	u.pending[q.ID] = snapshot

	return u.stage("insert quotation", func(s *Store) {
		s.quotations[snapshot.ID] = snapshot
	})
}

// Update requires the row to be locked by this unit of work.
func (w *quotationWriter) Update(_ context.Context, q domain.Quotation) error {
	u := (*unitOfWork)(w)
	_, locked := u.held[q.ID]
	_, inserted := u.pending[q.ID]
	if !locked && !inserted {
		return domain.NewStorageError("update quotation", fmt.Errorf("quotation %d not locked", q.ID))
	}

	snapshot := q.Clone()
	u.pending[q.ID] = snapshot

	return u.stage("update quotation", func(s *Store) {
		s.quotations[snapshot.ID] = snapshot
	})
}

type historyWriter unitOfWork

// Record implements ports.HistoryLedger.
func (w *historyWriter) Record(_ context.Context, e domain.HistoryEntry) (domain.HistoryEntry, error) {
	u := (*unitOfWork)(w)
	if u.done {
		return domain.HistoryEntry{}, domain.NewStorageError("record history", errClosed)
	}

	s := u.store
	s.mu.Lock()
	s.lastHistoryID++
	e.ID = s.lastHistoryID
	s.mu.Unlock()

	err := u.stage("record history", func(s *Store) {
		s.history = append(s.history, e)
	})

	return e, err
}

type auditWriter unitOfWork

// RecordAudit implements ports.AuditLog.
func (w *auditWriter) RecordAudit(_ context.Context, e domain.AuditEntry) error {
	u := (*unitOfWork)(w)

	return u.stage("record audit", func(s *Store) {
		s.lastAuditID++
		e.ID = s.lastAuditID
		s.audit = append(s.audit, e)
	})
}
