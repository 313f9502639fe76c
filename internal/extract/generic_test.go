package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
)

const sampleInvoiceText = `Fakturanr: 2024-1185
Fakturadato: 12.03.2024
Kundenr: 40412
Leveringsadresse: Fjordkraft Kantine AS
Org.nr: NO 987 654 321
Kontaktperson: Kari Nordmann
Produkt: Rational iCombi Pro
Serienr: E61SH2109123
Ordrenr: 1234567
Feilbeskrivelse: Varmeelement defekt, byttet element og termostat
Tekniker: Ola Hansen
Timer: 2,5
Timepris: 1 190,00
Arbeid: 2 975,00
Deler: 1 450,00
Totalt å betale: kr 4 425,00`

func TestGenericExtract(t *testing.T) {
	e := NewGenericExtractor(pattern.NewCatalog())

	inv := e.Extract(sampleInvoiceText)
	require.NotNil(t, inv)

	assert.Equal(t, "2024-1185", inv.InvoiceNumber)
	assert.Equal(t, "12.03.2024", inv.InvoiceDate)
	assert.Equal(t, "Fjordkraft Kantine AS", inv.CustomerName)
	assert.Equal(t, "40412", inv.CustomerNumber)
	assert.Equal(t, "Kari Nordmann", inv.ContactPerson)
	assert.Equal(t, "987 654 321", inv.CustomerOrgNumber)
	assert.Equal(t, "Rational iCombi Pro", inv.ProductName)
	assert.Equal(t, "E61SH2109123", inv.SerialNumber)
	assert.Equal(t, "1234567", inv.VendorJobNumber)
	assert.Equal(t, "Varmeelement defekt, byttet element og termostat", inv.ShortDescription)
	assert.Equal(t, "Ola Hansen", inv.TechnicianName)

	assert.True(t, inv.TechnicianHours.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, inv.HourlyRate.Equal(decimal.NewFromInt(1190)))
	assert.True(t, inv.WorkCost.Equal(decimal.NewFromInt(2975)))
	assert.True(t, inv.PartsCost.Equal(decimal.NewFromInt(1450)))
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(4425)))
	assert.True(t, inv.LaborCost.Equal(inv.WorkCost))

	assert.Equal(t, models.SourceGeneric, inv.Source)
	assert.Equal(t, sampleInvoiceText, inv.RawText)
	assert.False(t, inv.ProcessedAt.IsZero())
}

func TestGenericExtractEmptyText(t *testing.T) {
	e := NewGenericExtractor(pattern.NewCatalog())

	inv := e.Extract("")
	require.NotNil(t, inv)

	// Nothing matched: every string field empty, every amount exactly zero.
	assert.Empty(t, inv.InvoiceNumber)
	assert.Empty(t, inv.CustomerName)
	assert.Empty(t, inv.SerialNumber)
	assert.Empty(t, inv.VendorJobNumber)
	assert.Empty(t, inv.WarrantyStatus)

	assert.True(t, inv.WorkCost.IsZero())
	assert.True(t, inv.PartsCost.IsZero())
	assert.True(t, inv.TotalAmount.IsZero())
	assert.True(t, inv.TechnicianHours.IsZero())

	assert.Equal(t, models.SourceGeneric, inv.Source)
}
