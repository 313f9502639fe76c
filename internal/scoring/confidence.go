// Package scoring computes the confidence score and human-readable warnings
// for an extracted invoice record.
package scoring

import (
	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
)

// Score weights, in points out of 100. Centralized here so the scoring
// policy is auditable and testable in isolation from extraction.
//
// Critical fields predict that extraction succeeded meaningfully; supporting
// fields are weaker evidence. Bonus signals detect that a concept appears in
// the raw text at all, independent of whether the field was captured.
const (
	weightCustomerName     = 20.0
	weightProductName      = 20.0
	weightSerialNumber     = 15.0
	weightShortDescription = 10.0
	weightVendorJobNumber  = 10.0

	weightTotalAmount    = 15.0
	weightWarrantyStatus = 10.0

	bonusWarrantySignal = 5.0
	bonusJobNumberInRaw = 5.0
	bonusSerialInRaw    = 5.0
)

// Score computes the weighted confidence for a record, normalized to [0, 1].
// It is never negative and is capped at 1.0.
func Score(inv *models.ExtractedInvoice, rawText string) float64 {
	var points float64

	// critical fields
	if inv.CustomerName != "" {
		points += weightCustomerName
	}
	if inv.ProductName != "" {
		points += weightProductName
	}
	if inv.SerialNumber != "" {
		points += weightSerialNumber
	}
	if inv.ShortDescription != "" {
		points += weightShortDescription
	}
	if inv.VendorJobNumber != "" {
		points += weightVendorJobNumber
	}

	// supporting fields
	if inv.TotalAmount.IsPositive() {
		points += weightTotalAmount
	}
	if inv.WarrantyStatus != "" {
		points += weightWarrantyStatus
	}

	// bonus signals from the raw text
	if pattern.WarrantySignal.MatchString(rawText) {
		points += bonusWarrantySignal
	}
	if pattern.JobNumberNumeric.MatchString(rawText) || pattern.JobNumberPrefixed.MatchString(rawText) {
		points += bonusJobNumberInRaw
	}
	if pattern.SerialSignal.MatchString(rawText) {
		points += bonusSerialInRaw
	}

	score := points / 100
	if score > 1.0 {
		score = 1.0
	}
	return score
}
