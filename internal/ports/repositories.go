// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never driver rows or external DTOs
//   - Driver failures surface as domain.StorageError, missing rows as domain.NotFoundError
//   - Writes that must be atomic go through a UnitOfWork
package ports

import (
	"context"
	"iter"
	"time"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// QuotationFilter narrows quotation listings. Zero values mean "any".
type QuotationFilter struct {
	Statuses        []domain.Status
	Modality        domain.Modality
	ClientName      string
	ClientCNPJ      string
	OriginCity      string
	DestinationCity string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	ConsultantID    *int64
	OperatorID      *int64

	// AssignedOnly keeps quotations that already have an operator.
	AssignedOnly bool

	Page    int
	PerPage int
}

// Pagination defaults for quotation listings.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize clamps pagination to sane bounds and reduces the CNPJ filter to digits.
func (f QuotationFilter) Normalize() QuotationFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	f.ClientCNPJ = domain.OnlyDigits(f.ClientCNPJ)

	return f
}

// Offset returns the number of rows skipped by the current page.
func (f QuotationFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// QuotationPage is one page of a listing, newest first.
type QuotationPage struct {
	Items   []domain.Quotation
	Total   int
	Page    int
	PerPage int
}

// QuotationStats counts quotations matching a filter.
type QuotationStats struct {
	Total      int
	ByStatus   map[domain.Status]int
	ByModality map[domain.Modality]int
}

// QuotationReader serves lock-free reads.
type QuotationReader interface {
	// GetQuotation returns domain.ErrNotFound when the id is unknown.
	GetQuotation(ctx context.Context, id int64) (domain.Quotation, error)

	// ListQuotations applies the filter and pagination, newest first.
	ListQuotations(ctx context.Context, filter QuotationFilter) (QuotationPage, error)

	// QuotationStats ignores pagination.
	QuotationStats(ctx context.Context, filter QuotationFilter) (QuotationStats, error)
}

// QuotationRepository is the write side, only reachable through a UnitOfWork.
type QuotationRepository interface {
	// GetForUpdate loads the quotation and holds its row lock until the unit of work ends.
	// A concurrent caller blocks, then observes the committed state.
	GetForUpdate(ctx context.Context, id int64) (domain.Quotation, error)

	// Insert assigns ID and Number.
	Insert(ctx context.Context, q *domain.Quotation) error

	// Update persists every mutable field of q.
	Update(ctx context.Context, q domain.Quotation) error
}

// HistoryLedger appends transition records. There is no update or delete.
type HistoryLedger interface {
	Record(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error)
}

// HistoryReader exposes a quotation's ledger.
type HistoryReader interface {
	// HistoryFor yields entries newest first. The sequence is lazy and each range
	// over it reads the ledger again.
	HistoryFor(ctx context.Context, quotationID int64) iter.Seq2[domain.HistoryEntry, error]
}

// AuditLog records mutating actions for compliance review.
type AuditLog interface {
	RecordAudit(ctx context.Context, entry domain.AuditEntry) error
}

// UnitOfWork groups the writes of one transition. Exactly one of Commit or
// Rollback ends it; Rollback after Commit is a no-op.
type UnitOfWork interface {
	Quotations() QuotationRepository
	History() HistoryLedger
	Audit() AuditLog
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Transactor opens units of work.
type Transactor interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UserDirectory resolves users by id and role.
type UserDirectory interface {
	// GetUser returns domain.ErrNotFound when the id is unknown.
	GetUser(ctx context.Context, id int64) (domain.User, error)

	// ListActiveUsers returns active users holding any of the roles, ordered by name.
	ListActiveUsers(ctx context.Context, roles ...domain.Role) ([]domain.User, error)
}

// CompanyDirectory resolves provider companies.
type CompanyDirectory interface {
	// GetCompany returns domain.ErrNotFound when the id is unknown.
	GetCompany(ctx context.Context, id int64) (domain.Company, error)
}

// NotificationStore persists per-recipient notifications.
type NotificationStore interface {
	SaveNotifications(ctx context.Context, batch []domain.Notification) ([]domain.Notification, error)
	ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)

	// MarkRead returns domain.ErrNotFound unless the notification belongs to the recipient.
	MarkRead(ctx context.Context, id, recipientID int64) error

	// MarkAllRead returns the number of notifications flipped.
	MarkAllRead(ctx context.Context, recipientID int64) (int, error)
}

// NotificationPublisher pushes stored notifications to live subscribers.
type NotificationPublisher interface {
	Publish(ctx context.Context, batch []domain.Notification) error
}

// Notice is one committed transition addressed to its audience.
// The category is Transition.Category.
type Notice struct {
	Recipients []int64
	Transition domain.Transition
	Quotation  domain.Quotation
	Parties    domain.Parties
}

// NotificationDispatcher delivers the notifications produced by a transition.
// Callers treat failures as advisory: they are logged, never rolled back.
type NotificationDispatcher interface {
	Notify(ctx context.Context, notice Notice) error
}
