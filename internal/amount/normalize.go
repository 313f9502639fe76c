// Package amount converts Norwegian locale-formatted numeric strings into
// canonical decimal values.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyTokens are stripped before numeric parsing. Invoices write amounts
// as "kr 500", "500 kr", "NOK 500" or "500,-".
var currencyTokens = regexp.MustCompile(`(?i)\b(?:kr|nok)\b\.?|,-`)

// Normalize parses a locale-formatted amount into a canonical decimal.
//
// Accepted inputs, in resolution order:
//
//	"3 025,00"  — space thousands separator + comma decimal
//	"3025,00"   — bare comma decimal
//	"3 025"     — space thousands separator, no decimal
//	"3025.50"   — already canonical
//
// Unparseable input yields zero, never an error: most amount fields are
// optional hints, not contractual values.
func Normalize(raw string) decimal.Decimal {
	s := currencyTokens.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	hasComma := strings.Contains(s, ",")
	hasSpace := strings.ContainsAny(s, "  ")

	switch {
	case hasComma:
		// A comma is always the decimal separator; any whitespace is
		// grouping noise and goes first ("1 234 567,89" -> "1234567,89").
		s = stripSpaces(s)
		s = strings.Replace(s, ",", ".", 1)
	case hasSpace:
		s = stripSpaces(s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// stripSpaces removes regular and non-breaking spaces; OCR engines emit both
// for the Norwegian thousands separator.
func stripSpaces(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, " ", "")
}
