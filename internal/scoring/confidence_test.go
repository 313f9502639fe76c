package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

func TestScoreEmptyRecord(t *testing.T) {
	inv := models.NewExtractedInvoice()
	assert.Equal(t, 0.0, Score(inv, ""))
}

func TestScoreCriticalFields(t *testing.T) {
	tests := []struct {
		name string
		fill func(*models.ExtractedInvoice)
		want float64
	}{
		{"customer name", func(i *models.ExtractedInvoice) { i.CustomerName = "Kantina AS" }, 0.20},
		{"product name", func(i *models.ExtractedInvoice) { i.ProductName = "Kombidamper" }, 0.20},
		{"serial number", func(i *models.ExtractedInvoice) { i.SerialNumber = "21091234" }, 0.15},
		{"short description", func(i *models.ExtractedInvoice) { i.ShortDescription = "byttet element" }, 0.10},
		{"job number", func(i *models.ExtractedInvoice) { i.VendorJobNumber = "SV123456" }, 0.10},
		{"total amount", func(i *models.ExtractedInvoice) { i.TotalAmount = decimal.NewFromInt(4470) }, 0.15},
		{"warranty status", func(i *models.ExtractedInvoice) { i.WarrantyStatus = "garanti" }, 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := models.NewExtractedInvoice()
			tt.fill(inv)
			assert.InDelta(t, tt.want, Score(inv, ""), 0.001)
		})
	}
}

func TestScoreZeroTotalGivesNoPoints(t *testing.T) {
	inv := models.NewExtractedInvoice()
	inv.TotalAmount = decimal.Zero
	assert.Equal(t, 0.0, Score(inv, ""))
}

func TestScoreRawTextBonuses(t *testing.T) {
	inv := models.NewExtractedInvoice()

	assert.InDelta(t, 0.05, Score(inv, "dette er en garantisak"), 0.001)
	assert.InDelta(t, 0.05, Score(inv, "Ordrenr: 1234567"), 0.001)
	assert.InDelta(t, 0.05, Score(inv, "jobben SV123456 er fakturert"), 0.001)
	assert.InDelta(t, 0.05, Score(inv, "Serienr: 21091234"), 0.001)
}

func TestScoreCappedAtOne(t *testing.T) {
	inv := models.NewExtractedInvoice()
	inv.CustomerName = "Kantina AS"
	inv.ProductName = "Kombidamper"
	inv.SerialNumber = "21091234"
	inv.ShortDescription = "byttet varmeelement"
	inv.VendorJobNumber = "SV123456"
	inv.TotalAmount = decimal.NewFromInt(4470)
	inv.WarrantyStatus = "innenfor garanti"

	// Every weight plus every bonus exceeds 100 points.
	raw := "garantisak SV123456 Serienr: 21091234"
	assert.Equal(t, 1.0, Score(inv, raw))
}
