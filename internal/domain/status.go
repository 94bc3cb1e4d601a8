package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle position of a quotation.
// The zero value is invalid; parse persisted text with ParseStatus.
type Status uint8

// Lifecycle statuses in forward order.
const (
	StatusRequested Status = iota + 1
	StatusAcceptedByOperator
	StatusQuotationSent
	StatusAcceptedByConsultant
	StatusNegatedByConsultant
	StatusFinalized
)

var statusText = map[Status]string{
	StatusRequested:            "solicitada",
	StatusAcceptedByOperator:   "aceita_operador",
	StatusQuotationSent:        "cotacao_enviada",
	StatusAcceptedByConsultant: "aceita_consultor",
	StatusNegatedByConsultant:  "negada_consultor",
	StatusFinalized:            "finalizada",
}

var statusByText = func() map[string]Status {
	m := make(map[string]Status, len(statusText))
	for s, t := range statusText {
		m[t] = s
	}

	return m
}()

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusRequested,
		StatusAcceptedByOperator,
		StatusQuotationSent,
		StatusAcceptedByConsultant,
		StatusNegatedByConsultant,
		StatusFinalized,
	}
}

// ParseStatus maps persisted or legacy text to a Status.
// Lowercase text is canonical; the uppercase enum names written by older schemas are accepted too.
func ParseStatus(s string) (Status, error) {
	if st, ok := statusByText[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}

	return 0, NewValidationErrorWithValue("status", "unknown status", s)
}

// String returns the canonical text.
func (s Status) String() string {
	if t, ok := statusText[s]; ok {
		return t
	}

	return fmt.Sprintf("status(%d)", uint8(s))
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusText[s]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusFinalized
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st

	return nil
}
