package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCPFCNPJ(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"529.982.247-25", true},
		{"52998224725", true},
		{"11.222.333/0001-81", true},
		{"11222333000181", true},
		{"12345", false},
		{"", false},
		{"abc.def.ghi-jk", false},
		{"529982247250", false}, // 12 digits, neither shape
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, IsCPFCNPJ(tt.in), tt.in)
	}
}

func TestDigitsOf(t *testing.T) {
	assert.Equal(t, "52998224725", digitsOf("529.982.247-25"))
	assert.Equal(t, "", digitsOf("---"))
}
