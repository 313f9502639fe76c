// Package ai talks to the external vision backends. The pipeline itself never
// does I/O; this package is owned by the calling layer, and a failed or
// timed-out call is reported as an error the caller maps to "no payload".
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

// Provider is a vision-model backend that returns the raw model response for
// a prompt, optionally with an image attached (base64-encoded JPEG/PNG).
type Provider interface {
	ExtractData(ctx context.Context, prompt string, imageBase64 string) (string, error)
	Name() string
}

// NewProvider builds the configured provider, or nil when the vision path is
// disabled.
func NewProvider(cfg models.AIConfig) (Provider, error) {
	switch cfg.DefaultProvider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI), nil
	case "gemini":
		return NewGeminiProvider(cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.DefaultProvider)
	}
}

// BuildPrompt produces the extraction prompt for Norwegian service invoices.
// The model must answer with bare JSON matching the ExtractedInvoice field
// names; amounts use 0 and strings "" when unreadable, never null.
func BuildPrompt(ocrText string) string {
	var b strings.Builder
	b.WriteString(`Du er ekspert på norske servicefakturaer. Les dokumentet nøye og trekk ut feltene under.

Svar KUN med gyldig JSON (ingen markdown, ingen kommentarer):
{
  "invoiceNumber": "fakturanummer",
  "invoiceDate": "DD.MM.YYYY",
  "customerName": "kundens firmanavn",
  "customerNumber": "kundenummer",
  "contactPerson": "kontaktperson",
  "email": "e-post",
  "phone": "telefon",
  "address": "adresse",
  "customerOrgNumber": "organisasjonsnummer, 9 sifre",
  "productName": "produktnavn",
  "productNumber": "produktnummer",
  "productModel": "modell",
  "serialNumber": "serienummer",
  "vendorJobNumber": "ordre-/servicenummer",
  "shortDescription": "kort feilbeskrivelse",
  "detailedDescription": "utfyllende beskrivelse av utført arbeid",
  "technicianHours": tall,
  "hourlyRate": tall,
  "workCost": tall,
  "overtime50Hours": tall,
  "overtime50Cost": tall,
  "overtime100Hours": tall,
  "overtime100Cost": tall,
  "travelTimeHours": tall,
  "travelTimeCost": tall,
  "vehicleKm": tall,
  "krPerKm": tall,
  "vehicleCost": tall,
  "laborCost": tall,
  "partsCost": tall,
  "totalAmount": tall,
  "technicianName": "tekniker",
  "department": "avdeling",
  "warrantyStatus": "garantistatus slik den står på fakturaen",
  "confidence": tall 0-100
}

REGLER:
1. Bruk 0 for beløp du ikke kan lese, "" for tekstfelt - ALDRI null.
2. Beløp skrives med punktum som desimalskilletegn, uten tusenskille.
3. ALDRI finn på verdier som ikke står i dokumentet.
4. invoiceNumber og customerName er obligatoriske - let ekstra nøye etter dem.
`)

	if strings.TrimSpace(ocrText) != "" {
		b.WriteString("\nFakturatekst:\n")
		b.WriteString(ocrText)
	} else {
		b.WriteString("\nAnalyser det vedlagte bildet.")
	}

	return b.String()
}
