package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogFind(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name  string
		field string
		text  string
		want  string
	}{
		{"invoice number", FieldInvoiceNumber, "Fakturanr: 2024-1185", "2024-1185"},
		{"invoice number spelled out", FieldInvoiceNumber, "Fakturanummer 118845", "118845"},
		{"invoice date", FieldInvoiceDate, "Fakturadato: 12.03.2024", "12.03.2024"},
		{"customer via delivery address", FieldCustomerName,
			"Leveringsadresse: Fjordkraft Kantine AS", "Fjordkraft Kantine AS"},
		{"customer via bare company suffix", FieldCustomerName,
			"utstyret står hos Bergen Storkjøkken AS i Åsane", "Bergen Storkjøkken AS"},
		{"customer label is case-insensitive", FieldCustomerName,
			"LEVERINGSADRESSE: Kantina Vest AS", "Kantina Vest AS"},
		{"lowercase suffix is not a company", FieldCustomerName,
			"alt utstyr levert av grossisten as", ""},
		{"customer number", FieldCustomerNumber, "Kundenr: 40412", "40412"},
		{"org number with NO prefix", FieldCustomerOrgNumber, "Org.nr: NO 987 654 321", "987 654 321"},
		{"email", FieldEmail, "Kontakt: post@kantina.no", "post@kantina.no"},
		{"serial number", FieldSerialNumber, "Serienr: E61SH2109123", "E61SH2109123"},
		{"serial via s/n", FieldSerialNumber, "S/N: AB-991", "AB-991"},
		{"job number numeric", FieldVendorJobNumber, "Ordrenr: 1234567", "1234567"},
		{"job number prefixed", FieldVendorJobNumber, "Ref. SV123456 i vårt system", "SV123456"},
		{"warranty status expired", FieldWarrantyStatus, "Reparasjon utenfor garanti", "utenfor garanti"},
		{"missing field yields empty", FieldSerialNumber, "ingenting her", ""},
		{"unknown field yields empty", "noSuchField", "Fakturanr: 1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Find(tt.field, tt.text))
		})
	}
}

func TestCatalogAmountDefaults(t *testing.T) {
	c := NewCatalog()

	// Amount-bearing rules fall back to "0" so downstream parsing never sees
	// an empty string.
	for _, field := range []string{
		FieldTechnicianHours, FieldHourlyRate, FieldWorkCost,
		FieldTravelTimeCost, FieldVehicleCost, FieldPartsCost, FieldTotalAmount,
	} {
		assert.Equal(t, "0", c.Find(field, "tom faktura"), "field %s", field)
	}
}

func TestCatalogAmountCaptureKeepsLocaleFormat(t *testing.T) {
	c := NewCatalog()

	// The catalog captures amounts raw; normalization happens downstream.
	assert.Equal(t, "4 425,00", c.Find(FieldTotalAmount, "Totalt å betale: kr 4 425,00"))
	assert.Equal(t, "1 190,00", c.Find(FieldHourlyRate, "Timepris: 1 190,00"))
}

func TestCatalogAmountCaptureStartsAtDigit(t *testing.T) {
	c := NewCatalog()

	// "Totalt" is a prefix of "Totalt å betale"; the capture must start at
	// the digits, not latch onto the whitespace after the shorter label and
	// trim away to the default.
	assert.Equal(t, "4 425,00", c.Find(FieldTotalAmount, "Totalt å betale: kr 4 425,00"))
	assert.Equal(t, "4 425,00", c.Find(FieldTotalAmount, "Totalt 4 425,00"))
	assert.Equal(t, "0", c.Find(FieldWorkCost, "Arbeid pågår fortsatt"))
}

func TestJobNumberFormats(t *testing.T) {
	assert.True(t, JobNumberNumeric.MatchString("Ordrenr: 1234567"))
	assert.True(t, JobNumberNumeric.MatchString("Servicenummer 12345678"))
	assert.False(t, JobNumberNumeric.MatchString("Ordrenr: 12345"), "five digits is too short")
	assert.True(t, JobNumberPrefixed.MatchString("SV123456"))
	assert.False(t, JobNumberPrefixed.MatchString("SV12345"), "prefixed format is exactly six digits")
}

func TestWarrantySignals(t *testing.T) {
	assert.True(t, WarrantySignal.MatchString("Dette er en garantisak"))
	assert.False(t, WarrantySignal.MatchString("vanlig service"))

	for _, phrase := range []string{
		"utenfor garanti",
		"garantien er utløpt",
		"ikke dekket av garanti",
	} {
		assert.True(t, WarrantyExpired.MatchString(phrase), "phrase %q", phrase)
	}
	assert.False(t, WarrantyExpired.MatchString("innenfor garanti"))
}

func TestRuleApplyGroupPriority(t *testing.T) {
	c := NewCatalog()
	rule, ok := c.Rule(FieldCustomerName)
	require.True(t, ok)

	// Labelled capture wins over the bare company-suffix fallback when the
	// label appears first in the text.
	got := rule.Apply("Leveringsadresse: Kafeen AS\nLevert av Grossisten AS")
	assert.Equal(t, "Kafeen AS", got)
}
