package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"space thousands and comma decimal", "3 025,00", "3025"},
		{"bare comma decimal", "3025,00", "3025"},
		{"space thousands no decimal", "3 025", "3025"},
		{"already canonical", "3025.50", "3025.5"},
		{"millions", "1 234 567,89", "1234567.89"},
		{"kr prefix", "kr 500", "500"},
		{"kr suffix", "500 kr", "500"},
		{"nok prefix", "NOK 1 500,00", "1500"},
		{"comma dash suffix", "500,-", "500"},
		{"non-breaking space separator", "3 025,00", "3025"},
		{"empty", "", "0"},
		{"whitespace only", "   ", "0"},
		{"garbage", "ikke et tall", "0"},
		{"decimal only", "0,50", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Equal(want),
				"Normalize(%q) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize("3 025,00")
	second := Normalize(first.String())
	assert.True(t, first.Equal(second))
}
