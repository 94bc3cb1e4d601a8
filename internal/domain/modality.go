package domain

import (
	"fmt"
	"strings"
)

// Modality is the transport modality of a quotation. It decides which request fields are mandatory.
type Modality uint8

// Known modalities.
const (
	ModalityRoad Modality = iota + 1
	ModalityMaritime
	ModalityAir
)

var modalityText = map[Modality]string{
	ModalityRoad:     "brcargo_rodoviario",
	ModalityMaritime: "brcargo_maritimo",
	ModalityAir:      "frete_aereo",
}

// legacy spellings found in older rows.
var modalityAliases = map[string]Modality{
	"brcargo_rodoviario": ModalityRoad,
	"brcargo":            ModalityRoad,
	"brcargo_maritimo":   ModalityMaritime,
	"frete_aereo":        ModalityAir,
}

// Modalities lists every valid modality.
func Modalities() []Modality {
	return []Modality{ModalityRoad, ModalityMaritime, ModalityAir}
}

// ParseModality maps persisted or legacy text to a Modality. Empty input yields ModalityRoad.
func ParseModality(s string) (Modality, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return ModalityRoad, nil
	}
	if m, ok := modalityAliases[key]; ok {
		return m, nil
	}

	return 0, NewValidationErrorWithValue("modalidade", "unknown transport modality", s)
}

// String returns the canonical text.
func (m Modality) String() string {
	if t, ok := modalityText[m]; ok {
		return t
	}

	return fmt.Sprintf("modality(%d)", uint8(m))
}

// Valid reports whether m is a known modality.
func (m Modality) Valid() bool {
	_, ok := modalityText[m]
	return ok
}

// IsMaritime reports whether port fields replace street address fields.
func (m Modality) IsMaritime() bool {
	return m == ModalityMaritime
}

// MarshalText implements encoding.TextMarshaler.
func (m Modality) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid modality %d", uint8(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Modality) UnmarshalText(b []byte) error {
	v, err := ParseModality(string(b))
	if err != nil {
		return err
	}
	*m = v

	return nil
}
