package memory

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// GetQuotation implements ports.QuotationReader.
func (s *Store) GetQuotation(_ context.Context, id int64) (domain.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotations[id]
	if !ok {
		return domain.Quotation{}, domain.NewNotFoundError("quotation", strconv.FormatInt(id, 10))
	}

	return q.Clone(), nil
}

// ListQuotations implements ports.QuotationReader.
func (s *Store) ListQuotations(_ context.Context, filter ports.QuotationFilter) (ports.QuotationPage, error) {
	filter = filter.Normalize()
	matched := s.matching(filter)

	page := ports.QuotationPage{
		Items:   []domain.Quotation{},
		Total:   len(matched),
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	start := filter.Offset()
	if start >= len(matched) {
		return page, nil
	}
	end := min(start+filter.PerPage, len(matched))
	page.Items = matched[start:end]

	return page, nil
}

// QuotationStats implements ports.QuotationReader.
func (s *Store) QuotationStats(_ context.Context, filter ports.QuotationFilter) (ports.QuotationStats, error) {
	matched := s.matching(filter.Normalize())

	stats := ports.QuotationStats{
		Total:      len(matched),
		ByStatus:   make(map[domain.Status]int),
		ByModality: make(map[domain.Modality]int),
	}
	for _, q := range matched {
		stats.ByStatus[q.Status]++
		stats.ByModality[q.Request.Modality]++
	}

	return stats, nil
}

// HistoryFor implements ports.HistoryReader. Each range takes a fresh snapshot.
func (s *Store) HistoryFor(ctx context.Context, quotationID int64) iter.Seq2[domain.HistoryEntry, error] {
	return func(yield func(domain.HistoryEntry, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(domain.HistoryEntry{}, domain.NewStorageError("read history", err))
			return
		}

		s.mu.RLock()
		entries := make([]domain.HistoryEntry, 0)
		for _, e := range s.history {
			if e.QuotationID == quotationID {
				entries = append(entries, e)
			}
		}
		s.mu.RUnlock()

		slices.SortFunc(entries, func(a, b domain.HistoryEntry) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})

		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

// matching returns clones of the quotations passing filter, newest first.
func (s *Store) matching(f ports.QuotationFilter) []domain.Quotation {
	s.mu.RLock()
	out := make([]domain.Quotation, 0, len(s.quotations))
	for _, q := range s.quotations {
		if matches(&q, f) {
			out = append(out, q.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Quotation) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return out
}

func matches(q *domain.Quotation, f ports.QuotationFilter) bool {
	switch {
	case len(f.Statuses) > 0 && !slices.Contains(f.Statuses, q.Status):
		return false
	case f.Modality.Valid() && q.Request.Modality != f.Modality:
		return false
	case f.ConsultantID != nil && q.ConsultantID != *f.ConsultantID:
		return false
	case f.OperatorID != nil && (q.OperatorID == nil || *q.OperatorID != *f.OperatorID):
		return false
	case f.AssignedOnly && q.OperatorID == nil:
		return false
	case f.CreatedFrom != nil && q.CreatedAt.Before(*f.CreatedFrom):
		return false
	case f.CreatedTo != nil && q.CreatedAt.After(*f.CreatedTo):
		return false
	case f.ClientCNPJ != "" && !strings.Contains(q.Request.ClientCNPJ, f.ClientCNPJ):
		return false
	}

	return containsFold(q.Request.ClientName, f.ClientName) &&
		containsFold(q.Request.Origin.City, f.OriginCity) &&
		containsFold(q.Request.Destination.City, f.DestinationCity)
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
