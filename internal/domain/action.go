package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ActionName identifies a lifecycle action.
type ActionName string

// Lifecycle actions.
const (
	ActionCreate             ActionName = "create"
	ActionAcceptByOperator   ActionName = "accept_by_operator"
	ActionSendResponse       ActionName = "send_response"
	ActionAcceptByConsultant ActionName = "accept_by_consultant"
	ActionNegateByConsultant ActionName = "negate_by_consultant"
	ActionFinalize           ActionName = "finalize"
	ActionReassign           ActionName = "reassign"
)

// Action is a closed set of transitions applicable to an existing quotation.
// Each variant carries its own payload.
type Action interface {
	Name() ActionName
	validate() error
	notes() string
}

// AcceptByOperator claims a REQUESTED quotation for the acting operator.
type AcceptByOperator struct {
	Notes string
}

// SendResponse answers an accepted quotation with price and lead time.
type SendResponse struct {
	ProviderCompanyID int64
	FreightValue      decimal.Decimal
	LeadTimeDays      int
	Notes             string
}

// AcceptByConsultant records the consultant's acceptance of the operator's answer.
type AcceptByConsultant struct {
	Notes string
}

// NegateByConsultant records the consultant's refusal of the operator's answer.
type NegateByConsultant struct {
	Notes string
}

// Finalize closes a decided quotation.
type Finalize struct {
	Notes string
}

// Reassign hands the quotation to another operator without changing its status.
type Reassign struct {
	OperatorID int64
	Notes      string
}

func (AcceptByOperator) Name() ActionName   { return ActionAcceptByOperator }
func (SendResponse) Name() ActionName       { return ActionSendResponse }
func (AcceptByConsultant) Name() ActionName { return ActionAcceptByConsultant }
func (NegateByConsultant) Name() ActionName { return ActionNegateByConsultant }
func (Finalize) Name() ActionName           { return ActionFinalize }
func (Reassign) Name() ActionName           { return ActionReassign }

func (a AcceptByOperator) notes() string   { return noteOr(a.Notes, "Cotação aceita pelo operador") }
func (a SendResponse) notes() string       { return noteOr(a.Notes, "Cotação respondida pelo operador") }
func (a AcceptByConsultant) notes() string { return noteOr(a.Notes, "Cotação aceita pelo consultor") }
func (a NegateByConsultant) notes() string { return noteOr(a.Notes, "Cotação recusada pelo consultor") }
func (a Finalize) notes() string           { return noteOr(a.Notes, "Cotação finalizada") }
func (a Reassign) notes() string           { return noteOr(a.Notes, "Operador reatribuído") }

func (AcceptByOperator) validate() error   { return nil }
func (AcceptByConsultant) validate() error { return nil }
func (NegateByConsultant) validate() error { return nil }
func (Finalize) validate() error           { return nil }

func (a SendResponse) validate() error {
	if a.ProviderCompanyID <= 0 {
		return NewValidationError("empresa_prestadora_id", "is required")
	}
	if !a.FreightValue.IsPositive() {
		return NewValidationErrorWithValue("valor_frete", "must be greater than zero", a.FreightValue.String())
	}
	if a.LeadTimeDays <= 0 {
		return NewValidationErrorWithValue("prazo_entrega", "must be greater than zero", a.LeadTimeDays)
	}

	return nil
}

func (a Reassign) validate() error {
	if a.OperatorID <= 0 {
		return NewValidationError("novo_operador_id", "is required")
	}

	return nil
}

func noteOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}

	return fallback
}

// ownership states who, besides privileged roles, may perform an action.
type ownership int

const (
	// ownerNone means the capability alone decides.
	ownerNone ownership = iota
	// ownerAssignedOperator requires the actor to be the quotation's operator.
	ownerAssignedOperator
	// ownerConsultant requires the actor to be the quotation's consultant.
	ownerConsultant
)

type rule struct {
	capability Capability
	owner      ownership
	sources    []Status
	target     Status // zero keeps the current status
	category   Category
	audience   Audience
}

func ruleFor(a Action) rule {
	switch a.(type) {
	case AcceptByOperator:
		return rule{
			capability: CapAcceptQuotation,
			sources:    []Status{StatusRequested},
			target:     StatusAcceptedByOperator,
			category:   CategoryQuotationAccepted,
			audience:   AudienceConsultant,
		}
	case SendResponse:
		return rule{
			capability: CapRespondQuotation,
			owner:      ownerAssignedOperator,
			sources:    []Status{StatusAcceptedByOperator},
			target:     StatusQuotationSent,
			category:   CategoryQuotationAnswered,
			audience:   AudienceConsultant,
		}
	case AcceptByConsultant:
		return rule{
			owner:    ownerConsultant,
			sources:  []Status{StatusQuotationSent},
			target:   StatusAcceptedByConsultant,
			category: CategoryQuotationClosed,
			audience: AudienceOperator,
		}
	case NegateByConsultant:
		return rule{
			owner:    ownerConsultant,
			sources:  []Status{StatusQuotationSent},
			target:   StatusNegatedByConsultant,
			category: CategoryQuotationClosed,
			audience: AudienceOperator,
		}
	case Finalize:
		return rule{
			capability: CapFinalizeQuotation,
			owner:      ownerAssignedOperator,
			sources:    []Status{StatusAcceptedByConsultant, StatusNegatedByConsultant},
			target:     StatusFinalized,
			category:   CategoryQuotationClosed,
			audience:   AudienceBoth,
		}
	case Reassign:
		return rule{
			capability: CapReassignQuotation,
			sources: []Status{
				StatusRequested,
				StatusAcceptedByOperator,
				StatusQuotationSent,
				StatusAcceptedByConsultant,
				StatusNegatedByConsultant,
			},
			audience: AudienceNone,
		}
	default:
		panic("domain: unknown action type")
	}
}

// Sources returns the statuses from which the action is legal.
func Sources(a Action) []Status {
	return append([]Status(nil), ruleFor(a).sources...)
}
