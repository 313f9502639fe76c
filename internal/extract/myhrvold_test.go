package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
)

const myhrvoldInvoiceText = `Fakturanr: 118845
Leveringsadresse: Sentralkjøkkenet Bergen AS
T. Myhrvold AS - Serviceavdeling
Serienr: 21091234
Servicenr: 1234567

Varenr    Beskrivelse             Antall    Pris        Beløp
T1        Timer montør            2,50      1 210,00    3 025,00
RT1       Reisetid                1,00      980,00      980,00
KM        Kjøring                 42,00     7,50        315,00
FRAKT     Frakt og ekspedisjon    1,00      150,00      150,00

Totalt å betale: kr 4 470,00`

func newMyhrvoldParser() *MyhrvoldParser {
	return NewMyhrvoldParser(NewGenericExtractor(pattern.NewCatalog()))
}

func TestIsMyhrvoldInvoice(t *testing.T) {
	assert.True(t, IsMyhrvoldInvoice("Faktura fra T. Myhrvold"))
	assert.True(t, IsMyhrvoldInvoice("Myhrvold AS Serviceavdeling"))
	assert.False(t, IsMyhrvoldInvoice("Faktura fra Electrolux Professional"))
	assert.False(t, IsMyhrvoldInvoice(""))
}

func TestMyhrvoldParse(t *testing.T) {
	p := newMyhrvoldParser()

	table, err := p.Parse(&models.Document{Text: myhrvoldInvoiceText})
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)

	assert.True(t, table.LaborHours.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, table.LaborCost.Equal(decimal.NewFromInt(3025)))
	assert.True(t, table.LaborRate.Equal(decimal.NewFromInt(1210)))

	assert.True(t, table.TravelHours.Equal(decimal.NewFromInt(1)))
	assert.True(t, table.TravelCost.Equal(decimal.NewFromInt(980)))

	assert.True(t, table.VehicleKm.Equal(decimal.NewFromInt(42)))
	assert.True(t, table.KrPerKm.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, table.VehicleCost.Equal(decimal.NewFromInt(315)))

	assert.True(t, table.StatedTotal.Equal(decimal.NewFromInt(4470)))

	// The FRAKT row is kept for reconciliation but stays out of every bucket.
	assert.True(t, table.RowSum().Equal(decimal.NewFromInt(4470)))
}

func TestMyhrvoldParseNoTable(t *testing.T) {
	p := newMyhrvoldParser()

	_, err := p.Parse(&models.Document{Text: "T. Myhrvold AS\nFakturanr: 1"})
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = p.Parse(&models.Document{Text: ""})
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = p.Parse(nil)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestMyhrvoldParseHeaderWithoutRows(t *testing.T) {
	p := newMyhrvoldParser()

	text := "Varenr    Beskrivelse    Antall    Pris    Beløp\n\nTotalt: 100,00"
	_, err := p.Parse(&models.Document{Text: text})
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestMyhrvoldReconcileMismatch(t *testing.T) {
	table := &ParsedInvoiceTable{
		Rows: []InvoiceRow{
			{ProductCode: "T1", LineTotal: decimal.NewFromInt(3025)},
		},
		StatedTotal: decimal.NewFromInt(10000),
	}

	warnings := table.Reconcile()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "avviker")
}

func TestMyhrvoldReconcileWithinTolerance(t *testing.T) {
	table := &ParsedInvoiceTable{
		Rows: []InvoiceRow{
			{ProductCode: "T1", LineTotal: decimal.NewFromInt(995)},
		},
		StatedTotal: decimal.NewFromInt(1000),
	}

	assert.Empty(t, table.Reconcile())
}

func TestMyhrvoldExtract(t *testing.T) {
	p := newMyhrvoldParser()

	inv, warnings, err := p.Extract(&models.Document{Text: myhrvoldInvoiceText})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Header fields come from the generic catalog over the same text.
	assert.Equal(t, "118845", inv.InvoiceNumber)
	assert.Equal(t, "Sentralkjøkkenet Bergen AS", inv.CustomerName)
	assert.Equal(t, "21091234", inv.SerialNumber)
	assert.Equal(t, "1234567", inv.VendorJobNumber)

	// Cost buckets come from the table, not from the label patterns.
	assert.True(t, inv.TechnicianHours.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, inv.WorkCost.Equal(decimal.NewFromInt(3025)))
	assert.True(t, inv.LaborCost.Equal(decimal.NewFromInt(3025)))
	assert.True(t, inv.HourlyRate.Equal(decimal.NewFromInt(1210)))
	assert.True(t, inv.TravelTimeCost.Equal(decimal.NewFromInt(980)))
	assert.True(t, inv.VehicleKm.Equal(decimal.NewFromInt(42)))
	assert.True(t, inv.VehicleCost.Equal(decimal.NewFromInt(315)))
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(4470)))

	assert.Equal(t, models.SourceVendor, inv.Source)
}
