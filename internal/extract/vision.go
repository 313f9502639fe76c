package extract

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garantiflyt/invoice-extract-service/internal/amount"
	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

// visionPayload mirrors the JSON the vision backend returns. Amounts are
// decoded as interface{} because the model sometimes emits numbers as strings
// with locale separators ("3 025,00").
type visionPayload struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`

	CustomerName      string `json:"customerName"`
	CustomerNumber    string `json:"customerNumber"`
	ContactPerson     string `json:"contactPerson"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	CustomerOrgNumber string `json:"customerOrgNumber"`

	ProductName         string `json:"productName"`
	ProductNumber       string `json:"productNumber"`
	ProductModel        string `json:"productModel"`
	SerialNumber        string `json:"serialNumber"`
	VendorJobNumber     string `json:"vendorJobNumber"`
	ShortDescription    string `json:"shortDescription"`
	DetailedDescription string `json:"detailedDescription"`

	TechnicianHours  interface{} `json:"technicianHours"`
	HourlyRate       interface{} `json:"hourlyRate"`
	WorkCost         interface{} `json:"workCost"`
	Overtime50Hours  interface{} `json:"overtime50Hours"`
	Overtime50Cost   interface{} `json:"overtime50Cost"`
	Overtime100Hours interface{} `json:"overtime100Hours"`
	Overtime100Cost  interface{} `json:"overtime100Cost"`
	TravelTimeHours  interface{} `json:"travelTimeHours"`
	TravelTimeCost   interface{} `json:"travelTimeCost"`
	VehicleKm        interface{} `json:"vehicleKm"`
	KrPerKm          interface{} `json:"krPerKm"`
	VehicleCost      interface{} `json:"vehicleCost"`
	LaborCost        interface{} `json:"laborCost"`
	PartsCost        interface{} `json:"partsCost"`
	TotalAmount      interface{} `json:"totalAmount"`

	TechnicianName string `json:"technicianName"`
	Department     string `json:"department"`
	WarrantyStatus string `json:"warrantyStatus"`

	// engine-reported, 0-100
	Confidence interface{} `json:"confidence"`
}

// parseVisionJSON decodes a vision-model payload into a base record. A
// payload missing the structural minimum (invoice number + customer name)
// returns nil: the orchestrator treats that as "no payload available" and
// proceeds to text-based extraction.
func parseVisionJSON(data []byte, rawText string) *models.ExtractedInvoice {
	if len(data) == 0 {
		return nil
	}

	// The model occasionally wraps its JSON in markdown fences.
	cleaned := strings.TrimSpace(string(data))
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	var raw visionPayload
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil
	}
	if strings.TrimSpace(raw.InvoiceNumber) == "" || strings.TrimSpace(raw.CustomerName) == "" {
		return nil
	}

	inv := models.NewExtractedInvoice()

	inv.InvoiceNumber = strings.TrimSpace(raw.InvoiceNumber)
	inv.InvoiceDate = strings.TrimSpace(raw.InvoiceDate)

	inv.CustomerName = strings.TrimSpace(raw.CustomerName)
	inv.CustomerNumber = strings.TrimSpace(raw.CustomerNumber)
	inv.ContactPerson = strings.TrimSpace(raw.ContactPerson)
	inv.Email = strings.TrimSpace(raw.Email)
	inv.Phone = strings.TrimSpace(raw.Phone)
	inv.Address = strings.TrimSpace(raw.Address)
	inv.CustomerOrgNumber = strings.TrimSpace(raw.CustomerOrgNumber)

	inv.ProductName = strings.TrimSpace(raw.ProductName)
	inv.ProductNumber = strings.TrimSpace(raw.ProductNumber)
	inv.ProductModel = strings.TrimSpace(raw.ProductModel)
	inv.SerialNumber = strings.TrimSpace(raw.SerialNumber)
	inv.VendorJobNumber = strings.TrimSpace(raw.VendorJobNumber)
	inv.ShortDescription = strings.TrimSpace(raw.ShortDescription)
	inv.DetailedDescription = strings.TrimSpace(raw.DetailedDescription)

	inv.TechnicianHours = parseAmount(raw.TechnicianHours)
	inv.HourlyRate = parseAmount(raw.HourlyRate)
	inv.WorkCost = parseAmount(raw.WorkCost)
	inv.Overtime50Hours = parseAmount(raw.Overtime50Hours)
	inv.Overtime50Cost = parseAmount(raw.Overtime50Cost)
	inv.Overtime100Hours = parseAmount(raw.Overtime100Hours)
	inv.Overtime100Cost = parseAmount(raw.Overtime100Cost)
	inv.TravelTimeHours = parseAmount(raw.TravelTimeHours)
	inv.TravelTimeCost = parseAmount(raw.TravelTimeCost)
	inv.VehicleKm = parseAmount(raw.VehicleKm)
	inv.KrPerKm = parseAmount(raw.KrPerKm)
	inv.VehicleCost = parseAmount(raw.VehicleCost)
	inv.LaborCost = parseAmount(raw.LaborCost)
	inv.PartsCost = parseAmount(raw.PartsCost)
	inv.TotalAmount = parseAmount(raw.TotalAmount)

	inv.TechnicianName = strings.TrimSpace(raw.TechnicianName)
	inv.Department = strings.TrimSpace(raw.Department)
	inv.WarrantyStatus = strings.TrimSpace(raw.WarrantyStatus)

	inv.Source = models.SourceVision
	inv.RawText = rawText
	inv.ProcessedAt = time.Now()

	return inv
}

// parseAmount handles flexible number decoding from interface{}: numbers,
// json.Number, or locale-formatted strings.
func parseAmount(v interface{}) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case json.Number:
		d, err := decimal.NewFromString(string(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		return amount.Normalize(val)
	default:
		return decimal.Zero
	}
}
