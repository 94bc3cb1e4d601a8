package domain

import (
	"slices"
	"strconv"
	"time"
)

// Audience tells the dispatcher who must hear about a transition.
type Audience int

// Notification audiences.
const (
	AudienceNone Audience = iota
	AudienceAllOperators
	AudienceConsultant
	AudienceOperator
	AudienceBoth
)

// Transition describes one applied lifecycle move.
type Transition struct {
	Action      ActionName
	QuotationID int64
	ActorID     int64
	From        Status // zero for creation
	To          Status
	Notes       string
	At          time.Time
	Category    Category
	Audience    Audience
}

// HistoryEntry renders the ledger row for the transition.
func (t Transition) HistoryEntry() HistoryEntry {
	e := HistoryEntry{
		QuotationID: t.QuotationID,
		ActorID:     t.ActorID,
		ToStatus:    t.To,
		Notes:       t.Notes,
		CreatedAt:   t.At,
	}
	if t.From.Valid() {
		from := t.From
		e.FromStatus = &from
	}

	return e
}

// Refs carries entities referenced by an action payload, resolved by the caller.
type Refs struct {
	Company  *Company
	Operator *User
}

// Check runs every rule that does not need referenced entities:
// capability, ownership, source status, then payload.
func Check(q *Quotation, actor User, a Action) error {
	if a == nil {
		return NewValidationError("action", "is required")
	}
	r := ruleFor(a)
	op := string(a.Name())

	if !actor.Active {
		return NewPermissionDeniedError(op, "user is inactive")
	}
	if r.capability != "" && !Can(actor.Role, r.capability) {
		return NewPermissionDeniedError(op, "role "+string(actor.Role)+" lacks "+string(r.capability))
	}
	if err := checkOwnership(q, actor, r.owner, op); err != nil {
		return err
	}
	if !slices.Contains(r.sources, q.Status) {
		return NewConflictingStateError(a.Name(), q.Status)
	}

	return a.validate()
}

func checkOwnership(q *Quotation, actor User, owner ownership, op string) error {
	if actor.Role.IsPrivileged() {
		return nil
	}

	// Consultants never act on someone else's quotation.
	if actor.Role == RoleConsultant && q.ConsultantID != actor.ID {
		return NewPermissionDeniedError(op, "quotation belongs to another consultant")
	}

	switch owner {
	case ownerConsultant:
		if actor.Role != RoleConsultant {
			return NewPermissionDeniedError(op, "only the owning consultant may decide")
		}
	case ownerAssignedOperator:
		if !q.HasOperator(actor.ID) {
			return NewPermissionDeniedError(op, "quotation is assigned to another operator")
		}
	case ownerNone:
	}

	return nil
}

// CheckReassignTarget verifies a user may become a quotation's operator.
func CheckReassignTarget(u User) error {
	if !u.Active {
		return NewValidationErrorWithValue("novo_operador_id", "user is inactive", u.ID)
	}
	if !u.Role.IsOperatorTier() {
		return NewValidationErrorWithValue("novo_operador_id", "user does not hold an operator role", u.ID)
	}

	return nil
}

// Apply checks and applies the action, mutating q in place only on success.
func Apply(q *Quotation, actor User, a Action, refs Refs, now time.Time) (Transition, error) {
	if err := Check(q, actor, a); err != nil {
		return Transition{}, err
	}

	r := ruleFor(a)
	next := q.Clone()

	switch act := a.(type) {
	case AcceptByOperator:
		id := actor.ID
		next.OperatorID = &id
		next.AcceptedAt = &now
	case SendResponse:
		if refs.Company == nil || refs.Company.ID != act.ProviderCompanyID {
			return Transition{}, NewNotFoundError("company", strconv.FormatInt(act.ProviderCompanyID, 10))
		}
		id := act.ProviderCompanyID
		next.ProviderCompanyID = &id
		next.Response = &Response{
			FreightValue: act.FreightValue,
			LeadTimeDays: act.LeadTimeDays,
			Notes:        act.Notes,
		}
		next.RespondedAt = &now
	case AcceptByConsultant:
		next.DecisionNotes = act.Notes
		next.DecidedAt = &now
	case NegateByConsultant:
		next.DecisionNotes = act.Notes
		next.DecidedAt = &now
	case Finalize:
		next.FinalNotes = act.Notes
		next.FinalizedAt = &now
	case Reassign:
		if refs.Operator == nil || refs.Operator.ID != act.OperatorID {
			return Transition{}, NewNotFoundError("user", strconv.FormatInt(act.OperatorID, 10))
		}
		if err := CheckReassignTarget(*refs.Operator); err != nil {
			return Transition{}, err
		}
		id := act.OperatorID
		next.OperatorID = &id
	}

	from := q.Status
	if r.target.Valid() {
		next.Status = r.target
	}
	next.UpdatedAt = now
	*q = next

	return Transition{
		Action:      a.Name(),
		QuotationID: q.ID,
		ActorID:     actor.ID,
		From:        from,
		To:          q.Status,
		Notes:       a.notes(),
		At:          now,
		Category:    r.category,
		Audience:    r.audience,
	}, nil
}
