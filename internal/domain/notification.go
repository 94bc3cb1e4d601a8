package domain

import (
	"fmt"
	"time"
)

// Category tags a notification with the event that produced it.
type Category string

// Notification categories.
const (
	CategoryNewQuotation      Category = "nova_cotacao"
	CategoryQuotationAccepted Category = "cotacao_aceita"
	CategoryQuotationAnswered Category = "cotacao_respondida"
	CategoryQuotationClosed   Category = "cotacao_finalizada"
)

// Notification is a per-recipient message. Only the recipient flips Read.
type Notification struct {
	ID          int64
	RecipientID int64
	QuotationID int64
	Category    Category
	Title       string
	Body        string
	Read        bool
	CreatedAt   time.Time
}

// Parties holds the display names used to render notification text.
type Parties struct {
	ConsultantName string
	OperatorName   string
}

// Compose renders the title and body for a transition of the given quotation.
func Compose(t Transition, q *Quotation, p Parties) (title, body string) {
	switch t.Action {
	case ActionCreate:
		return fmt.Sprintf("Nova Cotação Disponível - %s", q.Number),
			fmt.Sprintf("Uma nova cotação foi solicitada por %s. Modalidade: %s. Cliente: %s.",
				p.ConsultantName, q.Request.Modality, q.Request.ClientName)
	case ActionAcceptByOperator:
		return fmt.Sprintf("Cotação Aceita - %s", q.Number),
			fmt.Sprintf("Sua cotação foi aceita pelo operador %s. Aguarde o retorno com os valores.", p.OperatorName)
	case ActionSendResponse:
		freight, lead := "A consultar", "A consultar"
		if q.Response != nil {
			freight = q.Response.FreightValue.StringFixed(2)
			lead = fmt.Sprintf("%d", q.Response.LeadTimeDays)
		}
		return fmt.Sprintf("Cotação Respondida - %s", q.Number),
			fmt.Sprintf("Sua cotação foi respondida pelo operador %s. Valor: R$ %s. Prazo: %s dias.",
				p.OperatorName, freight, lead)
	case ActionAcceptByConsultant:
		return fmt.Sprintf("Cotação Aceita - %s", q.Number),
			fmt.Sprintf("A cotação foi aceita pelo consultor %s.", p.ConsultantName)
	case ActionNegateByConsultant:
		return fmt.Sprintf("Cotação Recusada - %s", q.Number),
			fmt.Sprintf("A cotação foi recusada pelo consultor %s.", p.ConsultantName)
	case ActionFinalize:
		return fmt.Sprintf("Cotação Finalizada - %s", q.Number),
			fmt.Sprintf("A cotação %s foi finalizada.", q.Number)
	default:
		return fmt.Sprintf("Cotação Atualizada - %s", q.Number),
			fmt.Sprintf("A cotação %s mudou para %s.", q.Number, q.Status)
	}
}

// Recipients resolves the transition audience against the quotation parties.
// AudienceAllOperators needs the directory and is resolved by the caller.
func Recipients(a Audience, q *Quotation) []int64 {
	switch a {
	case AudienceConsultant:
		return []int64{q.ConsultantID}
	case AudienceOperator:
		if q.OperatorID != nil {
			return []int64{*q.OperatorID}
		}
	case AudienceBoth:
		out := []int64{q.ConsultantID}
		if q.OperatorID != nil && *q.OperatorID != q.ConsultantID {
			out = append(out, *q.OperatorID)
		}
		return out
	case AudienceNone, AudienceAllOperators:
	}

	return nil
}
