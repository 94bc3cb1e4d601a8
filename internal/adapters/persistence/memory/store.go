// Package memory implements every persistence port in process memory.
// It backs local development and the application tests, and honours the same
// locking contract as the Postgres adapter: a quotation fetched for update stays
// locked until its unit of work commits or rolls back.
package memory

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// Store holds all tables. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	quotations    map[int64]domain.Quotation
	history       []domain.HistoryEntry
	audit         []domain.AuditEntry
	users         map[int64]domain.User
	companies     map[int64]domain.Company
	notifications map[int64]domain.Notification

	// rowLocks has one single-slot channel per quotation id.
	rowLocks map[int64]chan struct{}

	lastQuotationID    int64
	lastHistoryID      int64
	lastAuditID        int64
	lastNotificationID int64
	yearSequence       map[int]int

	commitFailure error
}

var (
	_ ports.Transactor        = (*Store)(nil)
	_ ports.QuotationReader   = (*Store)(nil)
	_ ports.HistoryReader     = (*Store)(nil)
	_ ports.UserDirectory     = (*Store)(nil)
	_ ports.CompanyDirectory  = (*Store)(nil)
	_ ports.NotificationStore = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		quotations:    make(map[int64]domain.Quotation),
		users:         make(map[int64]domain.User),
		companies:     make(map[int64]domain.Company),
		notifications: make(map[int64]domain.Notification),
		rowLocks:      make(map[int64]chan struct{}),
		yearSequence:  make(map[int]int),
	}
}

// Name identifies the store in health reports.
func (s *Store) Name() string { return "memory" }

// Check always succeeds.
func (s *Store) Check(context.Context) error { return nil }

// PutUser inserts or replaces a user.
func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutCompany inserts or replaces a company.
func (s *Store) PutCompany(c domain.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

// FailNextCommit makes the next Commit fail with err and discard its writes.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitFailure = err
}

// AuditEntries returns a copy of the audit log in insertion order.
func (s *Store) AuditEntries() []domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.audit)
}

// GetUser implements ports.UserDirectory.
func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.NewNotFoundError("user", strconv.FormatInt(id, 10))
	}

	return u, nil
}

// ListActiveUsers implements ports.UserDirectory.
func (s *Store) ListActiveUsers(_ context.Context, roles ...domain.Role) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0)
	for _, u := range s.users {
		if u.Active && slices.Contains(roles, u.Role) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})

	return out, nil
}

// GetCompany implements ports.CompanyDirectory.
func (s *Store) GetCompany(_ context.Context, id int64) (domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return domain.Company{}, domain.NewNotFoundError("company", strconv.FormatInt(id, 10))
	}

	return c, nil
}

// rowLock returns the lock slot for a quotation, creating it on first use.
func (s *Store) rowLock(id int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}

	return ch
}
