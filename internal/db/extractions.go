package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Extraction is the persisted result of one pipeline run. The full record is
// stored as JSON next to the columns the claim screens filter on.
type Extraction struct {
	ID              uuid.UUID  `json:"id"`
	InvoiceNumber   string     `json:"invoice_number"`
	CustomerName    string     `json:"customer_name"`
	VendorJobNumber string     `json:"vendor_job_number"`
	SerialNumber    string     `json:"serial_number"`
	TotalAmount     float64    `json:"total_amount"`
	Confidence      float64    `json:"confidence"`
	Source          string     `json:"source"`
	FileURL         string     `json:"file_url"`
	RecordJSON      string     `json:"record_json"`
	Warnings        []string   `json:"warnings"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// SaveExtraction inserts a pipeline result.
func SaveExtraction(ctx context.Context, e *Extraction) error {
	query := `
		INSERT INTO extractions (
			invoice_number, customer_name, vendor_job_number, serial_number,
			total_amount, confidence, source, file_url, record_json, warnings,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := Pool.QueryRow(ctx, query,
		e.InvoiceNumber, e.CustomerName, e.VendorJobNumber, e.SerialNumber,
		e.TotalAmount, e.Confidence, e.Source, e.FileURL, e.RecordJSON, e.Warnings,
		e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)

	return err
}

// GetExtractions lists the most recent extractions.
func GetExtractions(ctx context.Context, limit int) ([]Extraction, error) {
	query := `
		SELECT id, COALESCE(invoice_number, ''), COALESCE(customer_name, ''),
		       COALESCE(vendor_job_number, ''), COALESCE(serial_number, ''),
		       COALESCE(total_amount, 0), COALESCE(confidence, 0),
		       COALESCE(source, ''), COALESCE(file_url, ''),
		       COALESCE(warnings, '{}'), created_at
		FROM extractions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []Extraction
	for rows.Next() {
		var e Extraction
		err := rows.Scan(
			&e.ID, &e.InvoiceNumber, &e.CustomerName,
			&e.VendorJobNumber, &e.SerialNumber,
			&e.TotalAmount, &e.Confidence,
			&e.Source, &e.FileURL,
			&e.Warnings, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		extractions = append(extractions, e)
	}

	return extractions, rows.Err()
}

// GetExtractionByID retrieves a single extraction, including the full record.
func GetExtractionByID(ctx context.Context, id string) (*Extraction, error) {
	query := `
		SELECT id, COALESCE(invoice_number, ''), COALESCE(customer_name, ''),
		       COALESCE(vendor_job_number, ''), COALESCE(serial_number, ''),
		       COALESCE(total_amount, 0), COALESCE(confidence, 0),
		       COALESCE(source, ''), COALESCE(file_url, ''),
		       COALESCE(record_json::text, ''), COALESCE(warnings, '{}'),
		       created_by, created_at, updated_at
		FROM extractions
		WHERE id = $1
	`

	var e Extraction
	err := Pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.InvoiceNumber, &e.CustomerName,
		&e.VendorJobNumber, &e.SerialNumber,
		&e.TotalAmount, &e.Confidence,
		&e.Source, &e.FileURL,
		&e.RecordJSON, &e.Warnings,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteExtraction removes an extraction.
func DeleteExtraction(ctx context.Context, id string) error {
	_, err := Pool.Exec(ctx, "DELETE FROM extractions WHERE id = $1", id)
	return err
}
