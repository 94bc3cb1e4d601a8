package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCNPJ(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"formatted valid", "11.222.333/0001-81", true},
		{"digits only valid", "11222333000181", true},
		{"wrong first check digit", "11.222.333/0001-91", false},
		{"wrong second check digit", "11.222.333/0001-82", false},
		{"repeated digits", "11.111.111/1111-11", false},
		{"too short", "1122233300018", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCNPJ(tt.input))
		})
	}
}

func TestValidCEP(t *testing.T) {
	assert.True(t, ValidCEP("01310-100"))
	assert.True(t, ValidCEP("01310100"))
	assert.False(t, ValidCEP("0131010"))
	assert.False(t, ValidCEP(""))
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "11222333000181", OnlyDigits("11.222.333/0001-81"))
	assert.Empty(t, OnlyDigits("abc"))
}
