package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Address is a street-level endpoint used by road and air quotations.
type Address struct {
	CEP    string
	Street string
	City   string
	State  string
}

// MaritimeDetails carries the fields specific to sea freight.
type MaritimeDetails struct {
	NetWeightKg        decimal.NullDecimal
	GrossWeightKg      decimal.NullDecimal
	CubicMeters        decimal.NullDecimal
	Incoterm           string
	CargoType          string
	ContainerSize      string
	ContainerQuantity  int
	OriginPort         string
	DestinationPort    string
	ClientNumber       string
	ClientAddress      string
	ClientAddressExtra string
}

// Request is the consultant-supplied payload of a quotation.
type Request struct {
	Modality Modality

	ClientName  string
	ClientCNPJ  string
	ClientPhone string
	ClientEmail string

	Origin      Address
	Destination Address

	CargoDescription string
	WeightKg         decimal.Decimal
	LengthCm         decimal.NullDecimal
	WidthCm          decimal.NullDecimal
	HeightCm         decimal.NullDecimal
	GoodsValue       decimal.NullDecimal
	PackagingType    string

	ServiceDeadline       string
	ServiceType           string
	ServiceNotes          string
	PreferredPickupDate   *time.Time
	HandlingInstructions  string
	ExtraInsurance        bool
	ComplementaryServices string
	Maritime              MaritimeDetails
}

// Response is the operator's pricing answer.
type Response struct {
	FreightValue decimal.Decimal
	LeadTimeDays int
	Notes        string
}

// Quotation is the aggregate moved through the lifecycle.
// Parties are referenced by id only.
type Quotation struct {
	ID     int64
	Number string
	Status Status

	ConsultantID      int64
	OperatorID        *int64
	ProviderCompanyID *int64

	Request  Request
	Response *Response

	DecisionNotes string
	FinalNotes    string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	AcceptedAt  *time.Time
	RespondedAt *time.Time
	DecidedAt   *time.Time
	FinalizedAt *time.Time
}

// HasOperator reports whether the quotation is assigned to the given user.
func (q *Quotation) HasOperator(userID int64) bool {
	return q.OperatorID != nil && *q.OperatorID == userID
}

// Clone returns a deep copy so callers cannot mutate shared pointers.
func (q Quotation) Clone() Quotation {
	c := q
	c.OperatorID = clonePtr(q.OperatorID)
	c.ProviderCompanyID = clonePtr(q.ProviderCompanyID)
	c.AcceptedAt = clonePtr(q.AcceptedAt)
	c.RespondedAt = clonePtr(q.RespondedAt)
	c.DecidedAt = clonePtr(q.DecidedAt)
	c.FinalizedAt = clonePtr(q.FinalizedAt)
	c.Request.PreferredPickupDate = clonePtr(q.Request.PreferredPickupDate)
	if q.Response != nil {
		r := *q.Response
		c.Response = &r
	}

	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p

	return &v
}

// FormatQuotationNumber renders the human readable code for the n-th quotation of a year.
func FormatQuotationNumber(year, seq int) string {
	return fmt.Sprintf("COT-%d-%04d", year, seq)
}

// Validate checks the request against the rules of its modality.
// The first failing field is reported.
func (r *Request) Validate() error {
	if !r.Modality.Valid() {
		return NewValidationError("modalidade", "unknown transport modality")
	}
	if strings.TrimSpace(r.ClientName) == "" {
		return NewValidationError("cliente_nome", "is required")
	}
	if strings.TrimSpace(r.ClientCNPJ) == "" {
		return NewValidationError("cliente_cnpj", "is required")
	}
	if !ValidCNPJ(r.ClientCNPJ) {
		return NewValidationErrorWithValue("cliente_cnpj", "invalid CNPJ", r.ClientCNPJ)
	}
	if strings.TrimSpace(r.CargoDescription) == "" {
		return NewValidationError("carga_descricao", "is required")
	}
	if !r.WeightKg.IsPositive() {
		return NewValidationErrorWithValue("carga_peso_kg", "must be greater than zero", r.WeightKg.String())
	}

	if r.Modality.IsMaritime() {
		if strings.TrimSpace(r.Maritime.OriginPort) == "" && strings.TrimSpace(r.Maritime.DestinationPort) == "" {
			return NewValidationError("porto_origem", "origin or destination port is required for maritime freight")
		}
		if r.Maritime.ContainerQuantity < 0 {
			return NewValidationError("quantidade_containers", "must not be negative")
		}

		return nil
	}

	if err := r.Origin.validate("origem"); err != nil {
		return err
	}

	return r.Destination.validate("destino")
}

func (a Address) validate(prefix string) error {
	if strings.TrimSpace(a.CEP) == "" {
		return NewValidationError(prefix+"_cep", "is required")
	}
	if !ValidCEP(a.CEP) {
		return NewValidationErrorWithValue(prefix+"_cep", "must have 8 digits", a.CEP)
	}
	if strings.TrimSpace(a.Street) == "" {
		return NewValidationError(prefix+"_endereco", "is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return NewValidationError(prefix+"_cidade", "is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return NewValidationError(prefix+"_estado", "is required")
	}

	return nil
}

// normalize trims input and stores documents as digits only.
func (r *Request) normalize() {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ClientCNPJ = OnlyDigits(r.ClientCNPJ)
	r.CargoDescription = strings.TrimSpace(r.CargoDescription)
	r.Maritime.OriginPort = strings.TrimSpace(r.Maritime.OriginPort)
	r.Maritime.DestinationPort = strings.TrimSpace(r.Maritime.DestinationPort)
	for _, a := range []*Address{&r.Origin, &r.Destination} {
		a.CEP = OnlyDigits(a.CEP)
		a.Street = strings.TrimSpace(a.Street)
		a.City = strings.TrimSpace(a.City)
		a.State = strings.ToUpper(strings.TrimSpace(a.State))
	}
}

// NewQuotation validates the request and builds a REQUESTED quotation owned by the actor.
// ID and Number are assigned by the repository.
func NewQuotation(actor User, req Request, now time.Time) (Quotation, Transition, error) {
	if err := Authorize(actor, CapCreateQuotation); err != nil {
		return Quotation{}, Transition{}, err
	}
	if req.Modality == 0 {
		req.Modality = ModalityRoad
	}
	if err := req.Validate(); err != nil {
		return Quotation{}, Transition{}, err
	}
	req.normalize()

	q := Quotation{
		Status:       StatusRequested,
		ConsultantID: actor.ID,
		Request:      req,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return q, Transition{
		Action:   ActionCreate,
		ActorID:  actor.ID,
		To:       StatusRequested,
		At:       now,
		Category: CategoryNewQuotation,
		Audience: AudienceAllOperators,
	}, nil
}
