package domain

import "time"

// HistoryEntry is an immutable ledger row describing one transition.
type HistoryEntry struct {
	ID          int64
	QuotationID int64
	ActorID     int64
	FromStatus  *Status // nil for the creation entry
	ToStatus    Status
	Notes       string
	CreatedAt   time.Time
}

// CanViewHistory reports whether the user may read a quotation's history:
// privileged roles, its consultant, or its assigned operator.
func CanViewHistory(u User, q *Quotation) bool {
	if !u.Active {
		return false
	}

	return u.Role.IsPrivileged() || q.ConsultantID == u.ID || q.HasOperator(u.ID)
}

// CanView reports whether the user may read the quotation itself.
func CanView(u User, q *Quotation) bool {
	if !u.Active {
		return false
	}
	switch ScopeOf(u.Role, CapViewQuotations) {
	case ScopeAll:
		return true
	case ScopeOwn:
		return q.ConsultantID == u.ID
	default:
		return false
	}
}

// AuditEntry records who did what to which resource.
type AuditEntry struct {
	ID         int64
	UserID     int64
	Action     string
	Resource   string
	ResourceID string
	Details    string
	CreatedAt  time.Time
}
