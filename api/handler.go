package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/garantiflyt/invoice-extract-service/internal/ai"
	"github.com/garantiflyt/invoice-extract-service/internal/auth"
	"github.com/garantiflyt/invoice-extract-service/internal/db"
	"github.com/garantiflyt/invoice-extract-service/internal/extract"
	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/ocr"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
	"github.com/garantiflyt/invoice-extract-service/internal/services"
	"github.com/garantiflyt/invoice-extract-service/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.3.0"
)

// Handler handles HTTP requests for invoice extraction
type Handler struct {
	config       *models.Config
	log          zerolog.Logger
	orchestrator *extract.Orchestrator
	provider     ai.Provider
	ocrEngine    *ocr.TesseractOCR
	preprocessor *ocr.Preprocessor
	validator    *services.CostValidator
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, provider ai.Provider, log zerolog.Logger) *Handler {
	return &Handler{
		config:       config,
		log:          log,
		orchestrator: extract.NewOrchestrator(pattern.NewCatalog(), log),
		provider:     provider,
		ocrEngine:    ocr.NewTesseractOCR(config.OCR.Language),
		preprocessor: ocr.NewPreprocessor(),
		validator:    services.NewCostValidator(),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/extract-invoice", h.ExtractInvoice).Methods("POST")
	router.HandleFunc("/api/extractions", h.GetExtractions).Methods("GET")
	router.HandleFunc("/api/extraction/{id}", h.GetExtraction).Methods("GET")
	router.HandleFunc("/api/extraction/{id}", h.DeleteExtraction).Methods("DELETE")
	router.HandleFunc("/api/extraction/{id}/file", h.GetExtractionFile).Methods("GET")

	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Memory    MemoryStats       `json:"memory"`
	Tesseract ServiceStatus     `json:"tesseract"`
	Database  ServiceStatus     `json:"database"`
	Storage   ServiceStatus     `json:"storage"`
	AI        map[string]string `json:"ai"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	tesseractStatus := h.checkTesseract()
	databaseStatus := h.checkDatabase()
	storageStatus := h.checkStorage()

	providerName := "disabled"
	if h.provider != nil {
		providerName = h.provider.Name()
	}

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Tesseract: tesseractStatus,
		Database:  databaseStatus,
		Storage:   storageStatus,
		AI: map[string]string{
			"provider":  providerName,
			"ocrEngine": h.config.OCR.Engine,
		},
	}

	// OCR down and no vision provider means no extraction path at all
	if !tesseractStatus.Available && h.provider == nil {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// checkTesseract verifies the tesseract binary is available
func (h *Handler) checkTesseract() ServiceStatus {
	cmd := exec.Command("tesseract", "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "tesseract not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{Available: true, Version: version}
}

// checkDatabase verifies the PostgreSQL pool
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}
	return ServiceStatus{Available: true, Version: "PostgreSQL"}
}

// checkStorage verifies the MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}
	return ServiceStatus{Available: true, Version: "MinIO S3"}
}

// ExtractInvoice runs one uploaded invoice through the extraction pipeline
// and returns the record the claim form pre-fills from.
func (h *Handler) ExtractInvoice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	requestStart := time.Now()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized: "+err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	// The file is optional when the caller already has OCR text.
	var (
		fileData    []byte
		contentType string
		doc         *models.Document
	)
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		fileData, err = io.ReadAll(file)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}
		contentType = header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}
	}

	rawText := r.FormValue("rawText")

	// OCR the upload when no text was supplied.
	var ocrDuration float64
	if rawText == "" && fileData != nil {
		ocrStart := time.Now()
		processed, _ := h.preprocessor.PreprocessImage(fileData)
		text, ocrConfidence, err := h.ocrEngine.ExtractText(processed)
		ocrDuration = time.Since(ocrStart).Seconds()
		if err != nil {
			h.log.Warn().Err(err).Msg("ocr failed, continuing without text")
		} else {
			rawText = text
			h.log.Debug().Float64("confidence", ocrConfidence).Int("chars", len(text)).Msg("ocr complete")
		}
	}

	// Vision call. A failure here is "no payload available", never fatal.
	var (
		visionJSON []byte
		aiDuration float64
	)
	useVision := r.FormValue("useVisionModel") != "false" && h.provider != nil
	if useVision {
		aiStart := time.Now()
		imageBase64 := ""
		if fileData != nil {
			imageBase64 = base64.StdEncoding.EncodeToString(fileData)
		}
		response, err := h.provider.ExtractData(ctx, ai.BuildPrompt(rawText), imageBase64)
		aiDuration = time.Since(aiStart).Seconds()
		if err != nil {
			h.log.Warn().Err(err).Str("provider", h.provider.Name()).Msg("vision extraction failed, falling back to text")
		} else {
			visionJSON = []byte(response)
		}
	}

	// Store the original file when the bucket is up.
	var fileURL string
	if storage.Client != nil && fileData != nil {
		filename := fmt.Sprintf("%s_%s%s",
			time.Now().Format("20060102_150405"),
			uuid.New().String()[:8],
			storage.GetFileExtension(contentType),
		)
		fileURL, err = storage.UploadInvoiceFile(ctx, filename, bytes.NewReader(fileData), int64(len(fileData)), contentType)
		if err != nil {
			h.log.Warn().Err(err).Msg("failed to upload invoice file")
		}
	}

	if fileData != nil {
		doc = &models.Document{
			Filename:    fileURL,
			ContentType: contentType,
			Data:        fileData,
			Text:        rawText,
		}
	}

	invoice, warnings := h.orchestrator.Run(models.ExtractionInput{
		RawText:    rawText,
		VisionJSON: visionJSON,
		File:       doc,
	})
	if warnings == nil {
		warnings = []string{}
	}

	validation := h.validator.Validate(invoice)

	// Persist the result when the database is up.
	var savedID string
	if db.Pool != nil {
		if createdBy, err := uuid.Parse(claims.UserID); err != nil {
			h.log.Warn().Str("user_id", claims.UserID).Msg("token carries a non-uuid user id, skipping persistence")
		} else {
			recordJSON, _ := json.Marshal(invoice)
			totalAmount, _ := invoice.TotalAmount.Float64()
			extraction := &db.Extraction{
				InvoiceNumber:   invoice.InvoiceNumber,
				CustomerName:    invoice.CustomerName,
				VendorJobNumber: invoice.VendorJobNumber,
				SerialNumber:    invoice.SerialNumber,
				TotalAmount:     totalAmount,
				Confidence:      invoice.Confidence,
				Source:          invoice.Source,
				FileURL:         fileURL,
				RecordJSON:      string(recordJSON),
				Warnings:        warnings,
				CreatedBy:       createdBy,
			}
			if err := db.SaveExtraction(ctx, extraction); err != nil {
				h.log.Warn().Err(err).Msg("failed to save extraction")
			} else {
				savedID = extraction.ID.String()
			}
		}
	}

	responseData := map[string]interface{}{
		"success":       true,
		"invoice":       invoice,
		"warnings":      warnings,
		"validation":    validation,
		"ocrDuration":   ocrDuration,
		"aiDuration":    aiDuration,
		"totalDuration": time.Since(requestStart).Seconds(),
	}
	if savedID != "" {
		responseData["id"] = savedID
		responseData["saved_to_db"] = true
	} else {
		responseData["saved_to_db"] = false
	}
	if fileURL != "" {
		responseData["file_url"] = fileURL
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(responseData)
}

// GetExtractions lists recent extraction results
func (h *Handler) GetExtractions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	extractions, err := db.GetExtractions(r.Context(), 100)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to list extractions")
		return
	}
	if extractions == nil {
		extractions = []db.Extraction{}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"extractions": extractions,
	})
}

// GetExtraction returns a single extraction including the full record
func (h *Handler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	id := mux.Vars(r)["id"]
	extraction, err := db.GetExtractionByID(r.Context(), id)
	if err != nil {
		h.sendError(w, http.StatusNotFound, "extraction not found")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"extraction": extraction,
	})
}

// DeleteExtraction removes an extraction and its stored file
func (h *Handler) DeleteExtraction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	id := mux.Vars(r)["id"]
	extraction, err := db.GetExtractionByID(r.Context(), id)
	if err != nil {
		h.sendError(w, http.StatusNotFound, "extraction not found")
		return
	}

	if err := db.DeleteExtraction(r.Context(), id); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to delete extraction")
		return
	}

	if storage.Client != nil && extraction.FileURL != "" {
		if err := storage.DeleteFile(r.Context(), extraction.FileURL); err != nil {
			h.log.Warn().Err(err).Str("file", extraction.FileURL).Msg("failed to delete stored file")
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

// GetExtractionFile redirects to a presigned URL for the original upload
func (h *Handler) GetExtractionFile(w http.ResponseWriter, r *http.Request) {
	if db.Pool == nil || storage.Client == nil {
		h.sendError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	id := mux.Vars(r)["id"]
	extraction, err := db.GetExtractionByID(r.Context(), id)
	if err != nil || extraction.FileURL == "" {
		h.sendError(w, http.StatusNotFound, "file not found")
		return
	}

	url, err := storage.GetPresignedURL(r.Context(), extraction.FileURL)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to generate file URL")
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ExtractResponse{
		Success: false,
		Error:   message,
	})
}
