package domain

// User is a person acting on quotations.
type User struct {
	ID     int64
	Name   string
	Email  string
	Role   Role
	Active bool
}

// Company is a logistics provider that can fulfil a quotation.
type Company struct {
	ID        int64
	LegalName string
	TradeName string
	CNPJ      string
}

// DisplayName prefers the trade name.
func (c Company) DisplayName() string {
	if c.TradeName != "" {
		return c.TradeName
	}

	return c.LegalName
}
