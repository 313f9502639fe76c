package scoring

import (
	"strings"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
)

// Confidence below this triggers a manual-review warning.
const reviewThreshold = 0.55

// Product names the extractor falls back to when the document has no usable
// product line; they are treated as missing.
var genericProductNames = map[string]bool{
	"ukjent":         true,
	"ukjent produkt": true,
	"produkt":        true,
	"vare":           true,
}

// Warnings inspects the final record and raw text and returns human-readable
// caveats for the warranty desk. Rules are independent and run in a fixed
// order so identical input always produces the same list.
func Warnings(inv *models.ExtractedInvoice, rawText string) []string {
	var warnings []string

	if inv.CustomerName == "" {
		warnings = append(warnings, "Kundenavn ble ikke funnet – fyll inn manuelt")
	}

	if inv.ProductName == "" || genericProductNames[strings.ToLower(strings.TrimSpace(inv.ProductName))] {
		warnings = append(warnings, "Produktnavn mangler eller er for generisk")
	}

	if inv.SerialNumber == "" {
		warnings = append(warnings, "Serienummer ble ikke funnet")
	}

	if !pattern.JobNumberNumeric.MatchString(rawText) &&
		!pattern.JobNumberPrefixed.MatchString(rawText) &&
		inv.VendorJobNumber == "" {
		warnings = append(warnings, "Ordrenummer mangler – ingen av de kjente formatene ble gjenkjent")
	}

	if pattern.WarrantyExpired.MatchString(rawText) {
		warnings = append(warnings, "Fakturaen indikerer at garantien er utløpt")
	}

	if inv.Confidence < reviewThreshold {
		warnings = append(warnings, "Lav ekstraksjonssikkerhet – manuell gjennomgang anbefales")
	}

	return warnings
}
