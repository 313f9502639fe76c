package extract

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garantiflyt/invoice-extract-service/internal/amount"
	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

// Vendor markers: either literal appearing verbatim in the OCR text
// identifies a T. Myhrvold service invoice.
var myhrvoldMarkers = []string{"T. Myhrvold", "Myhrvold AS"}

// Product codes used in Myhrvold's line-item table.
const (
	codeLabor  = "T1"  // technician hours
	codeTravel = "RT1" // travel time
	// distance-based vehicle rows carry "KM" somewhere in the code (KM, KM1, SKM...)
	vehicleToken = "KM"
)

// Row-sum vs stated-total reconciliation tolerance. Conservative; adjust here
// if the warranty desk reports noise.
var reconcileTolerance = decimal.NewFromFloat(0.02)

// ErrTableNotFound reports that the expected line-item table could not be
// located in the document. Unlike per-field soft misses this is a hard,
// typed failure: the orchestrator catches it and falls back to the generic
// extractor.
var ErrTableNotFound = errors.New("myhrvold: line-item table not found")

// InvoiceRow is one parsed line item. Rows are immutable once parsed and are
// never exposed past this parser.
type InvoiceRow struct {
	ProductCode string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ParsedInvoiceTable is the aggregate of one Myhrvold invoice table. Cost
// buckets are summed per product code; unrecognized codes are excluded from
// every bucket. StatedTotal comes from the document-level total line, not
// from the rows, so the two can be reconciled.
type ParsedInvoiceTable struct {
	Rows []InvoiceRow

	LaborHours decimal.Decimal
	LaborCost  decimal.Decimal
	LaborRate  decimal.Decimal

	TravelHours decimal.Decimal
	TravelCost  decimal.Decimal

	VehicleKm   decimal.Decimal
	KrPerKm     decimal.Decimal
	VehicleCost decimal.Decimal

	StatedTotal decimal.Decimal
}

// MyhrvoldParser is the specialized parser for T. Myhrvold service invoices.
type MyhrvoldParser struct {
	generic *GenericExtractor
}

// NewMyhrvoldParser creates a parser that delegates header fields to the
// generic extractor and owns only the tabular cost section.
func NewMyhrvoldParser(generic *GenericExtractor) *MyhrvoldParser {
	return &MyhrvoldParser{generic: generic}
}

// IsMyhrvoldInvoice reports whether raw text carries a vendor marker.
func IsMyhrvoldInvoice(text string) bool {
	for _, m := range myhrvoldMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Table header: the column captions Myhrvold prints above the line items.
var tableHeaderRe = regexp.MustCompile(`(?i)varenr.*antall.*(?:pris|beløp)`)

// Document-level total, e.g. "Totalt å betale: kr 5 300,00".
var statedTotalRe = regexp.MustCompile(`(?i)(?:totalt?\s*(?:å\s+betale)?|å\s+betale|sum\s+eks\.?\s*mva)\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`)

// columns are separated by runs of two or more spaces so that amounts with an
// embedded thousands space ("2 125,00") stay in one column.
var columnSplitRe = regexp.MustCompile(`\s{2,}|\t+`)

// Parse locates and reduces the line-item table. Returns ErrTableNotFound
// when the header row is missing; every other irregularity degrades to
// skipped rows.
func (p *MyhrvoldParser) Parse(doc *models.Document) (*ParsedInvoiceTable, error) {
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, ErrTableNotFound
	}

	lines := strings.Split(doc.Text, "\n")
	headerIdx := -1
	for i, line := range lines {
		if tableHeaderRe.MatchString(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, ErrTableNotFound
	}

	table := &ParsedInvoiceTable{
		LaborHours:  decimal.Zero,
		LaborCost:   decimal.Zero,
		LaborRate:   decimal.Zero,
		TravelHours: decimal.Zero,
		TravelCost:  decimal.Zero,
		VehicleKm:   decimal.Zero,
		KrPerKm:     decimal.Zero,
		VehicleCost: decimal.Zero,
		StatedTotal: decimal.Zero,
	}

	for _, line := range lines[headerIdx+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			// the table ends at the first blank line
			break
		}
		if statedTotalRe.MatchString(trimmed) {
			break
		}
		row, ok := parseRow(trimmed)
		if !ok {
			continue
		}
		table.Rows = append(table.Rows, row)
		classifyRow(table, row)
	}

	if len(table.Rows) == 0 {
		return nil, ErrTableNotFound
	}

	if m := statedTotalRe.FindStringSubmatch(doc.Text); m != nil {
		table.StatedTotal = amount.Normalize(m[1])
	}

	return table, nil
}

// parseRow splits one table line into an InvoiceRow. Expected shape:
//
//	CODE  description...  qty  unit price  line total
//
// Lines with fewer than four columns or a non-numeric tail are not rows.
func parseRow(line string) (InvoiceRow, bool) {
	cols := columnSplitRe.Split(line, -1)
	if len(cols) < 4 {
		return InvoiceRow{}, false
	}

	code := strings.Fields(cols[0])[0]
	qty := amount.Normalize(cols[len(cols)-3])
	unit := amount.Normalize(cols[len(cols)-2])
	total := amount.Normalize(cols[len(cols)-1])
	if total.IsZero() && unit.IsZero() {
		return InvoiceRow{}, false
	}

	return InvoiceRow{
		ProductCode: strings.ToUpper(code),
		Quantity:    qty,
		UnitPrice:   unit,
		LineTotal:   total,
	}, true
}

// classifyRow adds a row to its cost bucket. Unrecognized codes fall through
// and stay out of every bucket.
func classifyRow(table *ParsedInvoiceTable, row InvoiceRow) {
	switch {
	case row.ProductCode == codeLabor:
		table.LaborHours = table.LaborHours.Add(row.Quantity)
		table.LaborCost = table.LaborCost.Add(row.LineTotal)
		if table.LaborRate.IsZero() {
			table.LaborRate = row.UnitPrice
		}
	case row.ProductCode == codeTravel:
		table.TravelHours = table.TravelHours.Add(row.Quantity)
		table.TravelCost = table.TravelCost.Add(row.LineTotal)
	case strings.Contains(row.ProductCode, vehicleToken):
		table.VehicleKm = table.VehicleKm.Add(row.Quantity)
		table.VehicleCost = table.VehicleCost.Add(row.LineTotal)
		if table.KrPerKm.IsZero() {
			table.KrPerKm = row.UnitPrice
		}
	}
}

// RowSum is the sum of every parsed row's line total, used only for
// reconciliation against the stated total.
func (t *ParsedInvoiceTable) RowSum() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range t.Rows {
		sum = sum.Add(r.LineTotal)
	}
	return sum
}

// Reconcile compares the row sum against the document's stated total and
// returns a warning when they disagree by more than the tolerance.
func (t *ParsedInvoiceTable) Reconcile() []string {
	if t.StatedTotal.IsZero() {
		return nil
	}
	rowSum := t.RowSum()
	diff := t.StatedTotal.Sub(rowSum).Abs()
	if diff.GreaterThan(t.StatedTotal.Mul(reconcileTolerance)) {
		return []string{
			"Sum av fakturalinjer (" + rowSum.StringFixed(2) +
				") avviker fra oppgitt totalbeløp (" + t.StatedTotal.StringFixed(2) + ")",
		}
	}
	return nil
}

// Extract parses the table and builds the full record: header and customer
// fields come from the generic catalog over the same text, cost buckets come
// from the table. Returns reconciliation warnings alongside the record.
func (p *MyhrvoldParser) Extract(doc *models.Document) (*models.ExtractedInvoice, []string, error) {
	table, err := p.Parse(doc)
	if err != nil {
		return nil, nil, err
	}

	inv := p.generic.Extract(doc.Text)

	inv.TechnicianHours = table.LaborHours
	inv.WorkCost = table.LaborCost
	inv.LaborCost = table.LaborCost
	inv.HourlyRate = table.LaborRate
	inv.TravelTimeHours = table.TravelHours
	inv.TravelTimeCost = table.TravelCost
	inv.VehicleKm = table.VehicleKm
	inv.KrPerKm = table.KrPerKm
	inv.VehicleCost = table.VehicleCost
	if !table.StatedTotal.IsZero() {
		inv.TotalAmount = table.StatedTotal
	}

	inv.Source = models.SourceVendor
	inv.ProcessedAt = time.Now()

	return inv, table.Reconcile(), nil
}
