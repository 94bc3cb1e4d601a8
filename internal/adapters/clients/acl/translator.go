package acl

import (
	"strings"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// companyPayload is the registry's representation of a provider company.
type companyPayload struct {
	ID          int64  `json:"id"`
	RazaoSocial string `json:"razao_social"`
	Fantasia    string `json:"nome_fantasia"`
	CNPJ        string `json:"cnpj"`
}

// companyEnvelope accepts both {"data": {...}} and a bare object.
type companyEnvelope struct {
	Data *companyPayload `json:"data"`
	companyPayload
}

func (e *companyEnvelope) payload() *companyPayload {
	if e.Data != nil {
		return e.Data
	}

	return &e.companyPayload
}

func translateCompany(ext *companyPayload) (domain.Company, error) {
	if ext.ID <= 0 {
		return domain.Company{}, domain.NewValidationError("empresa.id", "must be positive")
	}
	if strings.TrimSpace(ext.RazaoSocial) == "" {
		return domain.Company{}, domain.NewValidationError("empresa.razao_social", "is required")
	}

	return domain.Company{
		ID:        ext.ID,
		LegalName: strings.TrimSpace(ext.RazaoSocial),
		TradeName: strings.TrimSpace(ext.Fantasia),
		CNPJ:      domain.OnlyDigits(ext.CNPJ),
	}, nil
}
