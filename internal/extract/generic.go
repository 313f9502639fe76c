package extract

import (
	"time"

	"github.com/garantiflyt/invoice-extract-service/internal/amount"
	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
)

// GenericExtractor applies the field pattern catalog against raw OCR text.
// It is the default backend when no vendor is recognized or the specialized
// parser fails. Pure function over text: a field that does not match degrades
// to its default instead of aborting the record.
type GenericExtractor struct {
	catalog *pattern.Catalog
}

// NewGenericExtractor creates an extractor over the given catalog.
func NewGenericExtractor(catalog *pattern.Catalog) *GenericExtractor {
	return &GenericExtractor{catalog: catalog}
}

// Extract assembles a fully populated record from raw text. It never fails;
// empty text yields a record of defaults.
func (e *GenericExtractor) Extract(text string) *models.ExtractedInvoice {
	c := e.catalog
	inv := models.NewExtractedInvoice()

	inv.InvoiceNumber = c.Find(pattern.FieldInvoiceNumber, text)
	inv.InvoiceDate = c.Find(pattern.FieldInvoiceDate, text)

	inv.CustomerName = c.Find(pattern.FieldCustomerName, text)
	inv.CustomerNumber = c.Find(pattern.FieldCustomerNumber, text)
	inv.ContactPerson = c.Find(pattern.FieldContactPerson, text)
	inv.Email = c.Find(pattern.FieldEmail, text)
	inv.Phone = c.Find(pattern.FieldPhone, text)
	inv.Address = c.Find(pattern.FieldAddress, text)
	inv.CustomerOrgNumber = c.Find(pattern.FieldCustomerOrgNumber, text)

	inv.ProductName = c.Find(pattern.FieldProductName, text)
	inv.ProductNumber = c.Find(pattern.FieldProductNumber, text)
	inv.ProductModel = c.Find(pattern.FieldProductModel, text)
	inv.SerialNumber = c.Find(pattern.FieldSerialNumber, text)
	inv.VendorJobNumber = c.Find(pattern.FieldVendorJobNumber, text)
	inv.ShortDescription = c.Find(pattern.FieldShortDescription, text)

	inv.TechnicianName = c.Find(pattern.FieldTechnicianName, text)
	inv.Department = c.Find(pattern.FieldDepartment, text)
	inv.WarrantyStatus = c.Find(pattern.FieldWarrantyStatus, text)

	inv.TechnicianHours = amount.Normalize(c.Find(pattern.FieldTechnicianHours, text))
	inv.HourlyRate = amount.Normalize(c.Find(pattern.FieldHourlyRate, text))
	inv.WorkCost = amount.Normalize(c.Find(pattern.FieldWorkCost, text))
	inv.TravelTimeCost = amount.Normalize(c.Find(pattern.FieldTravelTimeCost, text))
	inv.VehicleCost = amount.Normalize(c.Find(pattern.FieldVehicleCost, text))
	inv.PartsCost = amount.Normalize(c.Find(pattern.FieldPartsCost, text))
	inv.TotalAmount = amount.Normalize(c.Find(pattern.FieldTotalAmount, text))
	inv.LaborCost = inv.WorkCost

	inv.Source = models.SourceGeneric
	inv.RawText = text
	inv.ProcessedAt = time.Now()

	return inv
}
