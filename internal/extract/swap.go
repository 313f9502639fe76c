package extract

import (
	"github.com/shopspring/decimal"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

// The vision backend systematically transposes labor and parts cost on
// Myhrvold service invoices. On those invoices labor is typically the smaller
// of the two, so a large workCost above partsCost signals the swap defect.
// swapThreshold keeps trivial amounts from triggering the correction.
var swapThreshold = decimal.NewFromInt(1000)

// CorrectSwappedCosts fixes the known labor/parts transposition. It applies
// only to records that came from the vision path AND belong to the Myhrvold
// vendor; any other vendor or extraction path is left untouched.
func CorrectSwappedCosts(inv *models.ExtractedInvoice) *models.ExtractedInvoice {
	if inv.Source != models.SourceVision {
		return inv
	}
	if !IsMyhrvoldInvoice(inv.CustomerName) {
		return inv
	}
	if inv.WorkCost.GreaterThan(inv.PartsCost) && inv.WorkCost.GreaterThan(swapThreshold) {
		inv.WorkCost, inv.PartsCost = inv.PartsCost, inv.WorkCost
		inv.LaborCost = inv.WorkCost
	}
	return inv
}
