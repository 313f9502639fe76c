package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedInvoice is the structured result of running an invoice through the
// extraction pipeline. Every amount field defaults to zero and every string
// field to "" when nothing matched; downstream consumers (the claim pre-fill
// form) never see a missing field.
type ExtractedInvoice struct {
	// Invoice identity
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`

	// Customer
	CustomerName      string `json:"customerName"`
	CustomerNumber    string `json:"customerNumber"`
	ContactPerson     string `json:"contactPerson"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	CustomerOrgNumber string `json:"customerOrgNumber"`

	// Product / service
	ProductName         string `json:"productName"`
	ProductNumber       string `json:"productNumber"`
	ProductModel        string `json:"productModel"`
	SerialNumber        string `json:"serialNumber"`
	VendorJobNumber     string `json:"vendorJobNumber"`
	ShortDescription    string `json:"shortDescription"`
	DetailedDescription string `json:"detailedDescription"`

	// Cost figures (canonical decimal amounts, non-negative)
	TechnicianHours  decimal.Decimal `json:"technicianHours"`
	HourlyRate       decimal.Decimal `json:"hourlyRate"`
	WorkCost         decimal.Decimal `json:"workCost"`
	Overtime50Hours  decimal.Decimal `json:"overtime50Hours"`
	Overtime50Cost   decimal.Decimal `json:"overtime50Cost"`
	Overtime100Hours decimal.Decimal `json:"overtime100Hours"`
	Overtime100Cost  decimal.Decimal `json:"overtime100Cost"`
	TravelTimeHours  decimal.Decimal `json:"travelTimeHours"`
	TravelTimeCost   decimal.Decimal `json:"travelTimeCost"`
	VehicleKm        decimal.Decimal `json:"vehicleKm"`
	KrPerKm          decimal.Decimal `json:"krPerKm"`
	VehicleCost      decimal.Decimal `json:"vehicleCost"`
	LaborCost        decimal.Decimal `json:"laborCost"`
	PartsCost        decimal.Decimal `json:"partsCost"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`

	// Technician
	TechnicianName string `json:"technicianName"`
	Department     string `json:"department"`

	// Warranty status as stated on the document ("garanti", "utenfor garanti", ...)
	WarrantyStatus string `json:"warrantyStatus"`

	// Metadata
	Confidence  float64   `json:"confidence"` // overall confidence score (0-1)
	Source      string    `json:"source"`     // which backend produced the base record
	RawText     string    `json:"rawText,omitempty"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Extraction sources, recorded on the final record.
const (
	SourceVision  = "vision"
	SourceVendor  = "vendor-table"
	SourceGeneric = "generic"
)

// NewExtractedInvoice returns a record with every amount field explicitly at
// zero so JSON output never carries nulls.
func NewExtractedInvoice() *ExtractedInvoice {
	return &ExtractedInvoice{
		TechnicianHours:  decimal.Zero,
		HourlyRate:       decimal.Zero,
		WorkCost:         decimal.Zero,
		Overtime50Hours:  decimal.Zero,
		Overtime50Cost:   decimal.Zero,
		Overtime100Hours: decimal.Zero,
		Overtime100Cost:  decimal.Zero,
		TravelTimeHours:  decimal.Zero,
		TravelTimeCost:   decimal.Zero,
		VehicleKm:        decimal.Zero,
		KrPerKm:          decimal.Zero,
		VehicleCost:      decimal.Zero,
		LaborCost:        decimal.Zero,
		PartsCost:        decimal.Zero,
		TotalAmount:      decimal.Zero,
	}
}

// Document is an opaque handle to the original uploaded invoice file. The
// vendor table parser needs it; everything else works off RawText.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte

	// Text is the OCR output for this document, filled by the caller.
	Text string
}

// ExtractionInput carries everything the orchestrator may consume for one
// invoice. RawText may be empty; VisionJSON and File are optional.
type ExtractionInput struct {
	RawText    string
	VisionJSON []byte
	File       *Document
}

// ExtractResponse is the API payload handed back to the claim form.
type ExtractResponse struct {
	Success  bool              `json:"success"`
	Invoice  *ExtractedInvoice `json:"invoice,omitempty"`
	Warnings []string          `json:"warnings"`
	Error    string            `json:"error,omitempty"`

	// Processing metadata
	OCRDuration   float64 `json:"ocrDuration,omitempty"`
	AIDuration    float64 `json:"aiDuration,omitempty"`
	TotalDuration float64 `json:"totalDuration"`
}

// Config represents the service configuration
type Config struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	OCR OCRConfig `yaml:"ocr"`

	AI AIConfig `yaml:"ai"`
}

// OCRConfig represents OCR-specific configuration
type OCRConfig struct {
	Engine   string `yaml:"engine"`   // "tesseract"
	Language string `yaml:"language"` // OCR language (default: "nor")
}

// AIConfig represents vision provider configuration
type AIConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`

	// Default provider: "openai" or "gemini". Empty disables the vision path.
	DefaultProvider string `yaml:"default_provider"`
}

// OpenAIConfig for OpenAI / Azure OpenAI compatible endpoints
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}
