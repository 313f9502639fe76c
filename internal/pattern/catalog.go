// Package pattern holds the data-driven extraction rules for Norwegian
// service invoices. Rules are declared once at init and are read-only
// afterwards, so a single Catalog is safe to share across concurrent
// extractions.
package pattern

import (
	"regexp"
	"strings"
)

// Field names addressed by the catalog.
const (
	FieldInvoiceNumber     = "invoiceNumber"
	FieldInvoiceDate       = "invoiceDate"
	FieldCustomerName      = "customerName"
	FieldCustomerNumber    = "customerNumber"
	FieldContactPerson     = "contactPerson"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldAddress           = "address"
	FieldCustomerOrgNumber = "customerOrgNumber"
	FieldProductName       = "productName"
	FieldProductNumber     = "productNumber"
	FieldProductModel      = "productModel"
	FieldSerialNumber      = "serialNumber"
	FieldVendorJobNumber   = "vendorJobNumber"
	FieldShortDescription  = "shortDescription"
	FieldTechnicianName    = "technicianName"
	FieldDepartment        = "department"
	FieldWarrantyStatus    = "warrantyStatus"
	FieldTechnicianHours   = "technicianHours"
	FieldHourlyRate        = "hourlyRate"
	FieldWorkCost          = "workCost"
	FieldTravelTimeCost    = "travelTimeCost"
	FieldVehicleCost       = "vehicleCost"
	FieldPartsCost         = "partsCost"
	FieldTotalAmount       = "totalAmount"
)

// FieldRule is one extraction rule: a compiled pattern, the capture groups to
// consider in priority order, and the value substituted when nothing matches.
// The groups exist because the same semantic field has several phrasings on
// real invoices; the first non-empty group wins.
type FieldRule struct {
	Name    string
	Pattern *regexp.Regexp
	Groups  []int
	Default string
}

// Apply runs the rule against text and returns the first non-empty capture
// group, trimmed, or the rule default.
func (r FieldRule) Apply(text string) string {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil {
		return r.Default
	}
	for _, g := range r.Groups {
		if g < len(m) {
			if v := strings.TrimSpace(m[g]); v != "" {
				return v
			}
		}
	}
	return r.Default
}

// Catalog maps field name to its rule.
type Catalog struct {
	rules map[string]FieldRule
}

// Find applies the named rule to text. Unknown field names resolve to "" so
// callers degrade to the field default instead of failing.
func (c *Catalog) Find(field, text string) string {
	rule, ok := c.rules[field]
	if !ok {
		return ""
	}
	return rule.Apply(text)
}

// Rule exposes a single rule, mainly for tests.
func (c *Catalog) Rule(field string) (FieldRule, bool) {
	r, ok := c.rules[field]
	return r, ok
}

// Known vendor job-number formats. Both are matched verbatim by the warranty
// desk when cross-referencing the vendor's service system, so they double as
// bonus signals for the confidence scorer and as warning triggers.
var (
	JobNumberNumeric  = regexp.MustCompile(`(?i)(?:ordre|oppdrag|service)\s*(?:nr|nummer)?\s*[.:#]?\s*(\d{6,8})\b`)
	JobNumberPrefixed = regexp.MustCompile(`\b(SV\d{6})\b`)
)

// SerialSignal detects that a serial number is mentioned anywhere in the
// document, independent of whether extraction captured it.
var SerialSignal = regexp.MustCompile(`(?i)serie\s*(?:nr|nummer)\s*[.:]?\s*\S+|\bs/?n\s*[.:]\s*\S+`)

// Warranty language signals.
var (
	WarrantySignal  = regexp.MustCompile(`(?i)\bgaranti`)
	WarrantyExpired = regexp.MustCompile(`(?i)utenfor\s+garanti|garanti(?:en)?\s+(?:er\s+)?utløpt|ikke\s+(?:dekket\s+av\s+)?garanti`)
)

// NewCatalog builds the default rule set. Critical fields (customer name,
// product name, serial number, job number) favor precision; supporting fields
// are intentionally permissive.
func NewCatalog() *Catalog {
	rules := []FieldRule{
		{
			Name:    FieldInvoiceNumber,
			Pattern: regexp.MustCompile(`(?i)faktura\s*(?:nr|nummer)\s*[.:]?\s*([A-Z0-9][A-Z0-9-]*)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldInvoiceDate,
			Pattern: regexp.MustCompile(`(?i)faktura\s*dato\s*[.:]?\s*(\d{2}[./-]\d{2}[./-]\d{4})|(?i)dato\s*[.:]?\s*(\d{2}[./-]\d{2}[./-]\d{4})`),
			Groups:  []int{1, 2},
		},
		{
			// Customer name: prefer an explicit delivery/customer label,
			// fall back to a bare company name with a legal-entity suffix.
			// Only the label is case-insensitive; the fallback must anchor
			// at the capitalized name, not at preceding prose.
			Name: FieldCustomerName,
			Pattern: regexp.MustCompile(`(?i:leveringsadresse|kunde(?:navn)?)\s*[.:]\s*([^\n]+)|` +
				`([A-ZÆØÅ][A-Za-zÆØÅæøå.&\- ]+\s(?:AS|ASA|ANS|DA)\b)`),
			Groups: []int{1, 2},
		},
		{
			Name:    FieldCustomerNumber,
			Pattern: regexp.MustCompile(`(?i)kunde\s*(?:nr|nummer)\s*[.:]?\s*(\d+)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldContactPerson,
			Pattern: regexp.MustCompile(`(?i)(?:kontakt(?:person)?|deres\s+ref(?:eranse)?)\s*[.:]\s*([^\n]+)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldEmail,
			Pattern: regexp.MustCompile(`([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`),
			Groups:  []int{1},
		},
		{
			Name:    FieldPhone,
			Pattern: regexp.MustCompile(`(?i)(?:tlf|telefon|mobil)\s*[.:]?\s*((?:\+47\s?)?(?:\d{2}\s?){3}\d{2})`),
			Groups:  []int{1},
		},
		{
			Name:    FieldAddress,
			Pattern: regexp.MustCompile(`(?i)adresse\s*[.:]\s*([^\n]+)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldCustomerOrgNumber,
			Pattern: regexp.MustCompile(`(?i)org(?:\.|anisasjons)?\s*(?:nr|nummer)\s*[.:]?\s*(?:NO\s*)?(\d{3}\s?\d{3}\s?\d{3})`),
			Groups:  []int{1},
		},
		{
			Name:    FieldProductName,
			Pattern: regexp.MustCompile(`(?i)produkt(?:navn)?\s*[.:]\s*([^\n]+)|(?i)gjelder\s*[.:]\s*([^\n]+)`),
			Groups:  []int{1, 2},
		},
		{
			Name:    FieldProductNumber,
			Pattern: regexp.MustCompile(`(?i)(?:produkt|vare|art(?:ikkel)?)\s*(?:nr|nummer)\s*[.:]?\s*([A-Z0-9][A-Z0-9-]*)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldProductModel,
			Pattern: regexp.MustCompile(`(?i)modell\s*[.:]?\s*([A-Z0-9][A-Za-z0-9 /-]*)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldSerialNumber,
			Pattern: regexp.MustCompile(`(?i)serie\s*(?:nr|nummer)\s*[.:]?\s*([A-Z0-9][A-Z0-9-]*)|(?i)\bs/?n\s*[.:]\s*([A-Z0-9][A-Z0-9-]*)`),
			Groups:  []int{1, 2},
		},
		{
			Name:    FieldVendorJobNumber,
			Pattern: regexp.MustCompile(JobNumberNumeric.String() + `|` + JobNumberPrefixed.String()),
			Groups:  []int{1, 2},
		},
		{
			Name:    FieldShortDescription,
			Pattern: regexp.MustCompile(`(?i)(?:feil(?:beskrivelse)?|beskrivelse|utført\s+arbeid)\s*[.:]\s*([^\n]+)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldTechnicianName,
			Pattern: regexp.MustCompile(`(?i)(?:tekniker|montør|utført\s+av)\s*[.:]\s*([^\n]+)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldDepartment,
			Pattern: regexp.MustCompile(`(?i)avdeling\s*[.:]?\s*([^\n]+)`),
			Groups:  []int{1},
		},
		{
			Name:    FieldWarrantyStatus,
			Pattern: regexp.MustCompile(`(?i)(utenfor\s+garanti|garanti(?:en)?\s+(?:er\s+)?utløpt|(?:innenfor|under|dekket\s+av)\s+garanti|garanti(?:sak|reparasjon)?)`),
			Groups:  []int{1},
		},

		// Amount-bearing fields. Captures stay raw here; the extractor pipes
		// them through amount.Normalize. Every capture starts at a digit: a
		// label with no amount after it is a non-match, not an empty capture.
		{
			Name:    FieldTechnicianHours,
			Pattern: regexp.MustCompile(`(?i)(?:antall\s+)?timer\s*[.:]?\s*(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
		{
			Name:    FieldHourlyRate,
			Pattern: regexp.MustCompile(`(?i)time(?:pris|sats)\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
		{
			Name:    FieldWorkCost,
			Pattern: regexp.MustCompile(`(?i)arbeid(?:skostnad)?\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
		{
			Name:    FieldTravelTimeCost,
			Pattern: regexp.MustCompile(`(?i)reise(?:tid)?\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
		{
			Name:    FieldVehicleCost,
			Pattern: regexp.MustCompile(`(?i)(?:kjøring|bilgodtgjørelse|km\s*-?\s*godtgjørelse)\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
		{
			Name:    FieldPartsCost,
			Pattern: regexp.MustCompile(`(?i)(?:deler|reservedeler|materiell)\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
		{
			Name:    FieldTotalAmount,
			Pattern: regexp.MustCompile(`(?i)(?:å\s+betale|total[t]?(?:\s+beløp)?|sum)\s*[.:]?\s*(?:kr\s*)?(\d[\d ,.]*)`),
			Groups:  []int{1},
			Default: "0",
		},
	}

	m := make(map[string]FieldRule, len(rules))
	for _, r := range rules {
		m[r.Name] = r
	}
	return &Catalog{rules: m}
}
