package services

import (
	"github.com/shopspring/decimal"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field    string `json:"field"`
	Code     string `json:"code"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ComputedValues holds calculated/expected values
type ComputedValues struct {
	ExpectedWorkCost    string `json:"expected_work_cost"`
	ExpectedVehicleCost string `json:"expected_vehicle_cost"`
	ExpectedTotal       string `json:"expected_total"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needs_review"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
	Computed    ComputedValues      `json:"computed"`
}

// CostValidator cross-checks the cost figures of an extracted invoice. The
// claim economics downstream depend on these amounts, so inconsistencies are
// flagged for review before the claim form is pre-filled.
type CostValidator struct {
	tolerance decimal.Decimal // relative tolerance (0.05 = 5%)
}

// NewCostValidator creates a validator with the default 5% tolerance.
func NewCostValidator() *CostValidator {
	return &CostValidator{tolerance: decimal.NewFromFloat(0.05)}
}

// Validate performs all cross-validations on the extracted cost fields.
func (v *CostValidator) Validate(inv *models.ExtractedInvoice) *ValidationResult {
	result := &ValidationResult{
		Valid:       true,
		NeedsReview: false,
		Errors:      []ValidationError{},
		Warnings:    []ValidationWarning{},
	}

	expectedWork := inv.TechnicianHours.Mul(inv.HourlyRate)
	expectedVehicle := inv.VehicleKm.Mul(inv.KrPerKm)
	expectedTotal := inv.WorkCost.
		Add(inv.Overtime50Cost).
		Add(inv.Overtime100Cost).
		Add(inv.TravelTimeCost).
		Add(inv.VehicleCost).
		Add(inv.PartsCost)

	result.Computed = ComputedValues{
		ExpectedWorkCost:    expectedWork.StringFixed(2),
		ExpectedVehicleCost: expectedVehicle.StringFixed(2),
		ExpectedTotal:       expectedTotal.StringFixed(2),
	}

	v.validateWorkCost(inv, result, expectedWork)
	v.validateVehicleCost(inv, result, expectedVehicle)
	v.validateTotal(inv, result, expectedTotal)
	v.validateNonNegative(inv, result)

	result.Valid = len(result.Errors) == 0
	result.NeedsReview = len(result.Warnings) > 0

	return result
}

// validateWorkCost checks workCost against hours x hourly rate.
func (v *CostValidator) validateWorkCost(inv *models.ExtractedInvoice, result *ValidationResult, expected decimal.Decimal) {
	if expected.IsZero() || inv.WorkCost.IsZero() {
		return
	}
	diff := inv.WorkCost.Sub(expected).Abs()
	if diff.GreaterThan(expected.Mul(v.tolerance)) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "workCost",
			Code:    "work_cost_mismatch",
			Message: "Arbeidskostnad samsvarer ikke med timer x timepris",
		})
	}
}

// validateVehicleCost checks vehicleCost against km x kr/km.
func (v *CostValidator) validateVehicleCost(inv *models.ExtractedInvoice, result *ValidationResult, expected decimal.Decimal) {
	if expected.IsZero() || inv.VehicleCost.IsZero() {
		return
	}
	diff := inv.VehicleCost.Sub(expected).Abs()
	if diff.GreaterThan(expected.Mul(v.tolerance)) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "vehicleCost",
			Code:    "vehicle_cost_mismatch",
			Message: "Kjøregodtgjørelse samsvarer ikke med km x kr/km",
		})
	}
}

// validateTotal checks the stated total against the sum of cost components.
func (v *CostValidator) validateTotal(inv *models.ExtractedInvoice, result *ValidationResult, expected decimal.Decimal) {
	if inv.TotalAmount.IsZero() || expected.IsZero() {
		return
	}
	diff := inv.TotalAmount.Sub(expected).Abs()
	if diff.GreaterThan(inv.TotalAmount.Mul(v.tolerance)) {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "totalAmount",
			Code:     "total_mismatch",
			Expected: expected.StringFixed(2),
			Actual:   inv.TotalAmount.StringFixed(2),
			Message:  "Totalbeløp samsvarer ikke med summen av kostnadskomponentene",
		})
	}
}

// validateNonNegative flags negative amounts; the record contract says cost
// figures are non-negative.
func (v *CostValidator) validateNonNegative(inv *models.ExtractedInvoice, result *ValidationResult) {
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"workCost", inv.WorkCost},
		{"partsCost", inv.PartsCost},
		{"travelTimeCost", inv.TravelTimeCost},
		{"vehicleCost", inv.VehicleCost},
		{"totalAmount", inv.TotalAmount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   a.field,
				Code:    "negative_amount",
				Actual:  a.value.StringFixed(2),
				Message: "Beløpet kan ikke være negativt",
			})
		}
	}
}
