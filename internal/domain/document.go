package domain

import "strings"

const (
	cnpjLength = 14
	cepLength  = 8
)

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// ValidCNPJ checks length and both check digits of a Brazilian company tax id.
// Punctuation is ignored. Sequences of a single repeated digit are rejected.
func ValidCNPJ(s string) bool {
	d := OnlyDigits(s)
	if len(d) != cnpjLength || strings.Count(d, d[:1]) == cnpjLength {
		return false
	}

	first := cnpjCheckDigit(d[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	if int(d[12]-'0') != first {
		return false
	}
	second := cnpjCheckDigit(d[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})

	return int(d[13]-'0') == second
}

func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}

	return 11 - rest
}

// ValidCEP checks a Brazilian postal code: eight digits once punctuation is removed.
func ValidCEP(s string) bool {
	return len(OnlyDigits(s)) == cepLength
}
