package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

func visionRecord(customer string, work, parts int64) *models.ExtractedInvoice {
	inv := models.NewExtractedInvoice()
	inv.Source = models.SourceVision
	inv.CustomerName = customer
	inv.WorkCost = decimal.NewFromInt(work)
	inv.LaborCost = decimal.NewFromInt(work)
	inv.PartsCost = decimal.NewFromInt(parts)
	return inv
}

func TestCorrectSwappedCosts(t *testing.T) {
	inv := visionRecord("T. Myhrvold AS", 8000, 1200)

	got := CorrectSwappedCosts(inv)

	assert.True(t, got.WorkCost.Equal(decimal.NewFromInt(1200)))
	assert.True(t, got.PartsCost.Equal(decimal.NewFromInt(8000)))
	assert.True(t, got.LaborCost.Equal(decimal.NewFromInt(1200)), "laborCost follows workCost")
}

func TestCorrectSwappedCostsOnlyVisionSource(t *testing.T) {
	inv := visionRecord("T. Myhrvold AS", 8000, 1200)
	inv.Source = models.SourceGeneric

	got := CorrectSwappedCosts(inv)

	assert.True(t, got.WorkCost.Equal(decimal.NewFromInt(8000)))
	assert.True(t, got.PartsCost.Equal(decimal.NewFromInt(1200)))
}

func TestCorrectSwappedCostsOnlyMyhrvold(t *testing.T) {
	inv := visionRecord("Electrolux Professional AS", 8000, 1200)

	got := CorrectSwappedCosts(inv)

	assert.True(t, got.WorkCost.Equal(decimal.NewFromInt(8000)))
	assert.True(t, got.PartsCost.Equal(decimal.NewFromInt(1200)))
}

func TestCorrectSwappedCostsThreshold(t *testing.T) {
	// Work above parts but below the threshold is plausible, not a defect.
	inv := visionRecord("T. Myhrvold AS", 800, 100)

	got := CorrectSwappedCosts(inv)

	assert.True(t, got.WorkCost.Equal(decimal.NewFromInt(800)))
	assert.True(t, got.PartsCost.Equal(decimal.NewFromInt(100)))
}

func TestCorrectSwappedCostsWorkBelowParts(t *testing.T) {
	inv := visionRecord("T. Myhrvold AS", 1200, 8000)

	got := CorrectSwappedCosts(inv)

	assert.True(t, got.WorkCost.Equal(decimal.NewFromInt(1200)))
	assert.True(t, got.PartsCost.Equal(decimal.NewFromInt(8000)))
}
