package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantiflyt/invoice-extract-service/internal/auth"
	"github.com/garantiflyt/invoice-extract-service/internal/models"
)

// newTestHandler wires the full route set behind the JWT middleware with no
// database, storage or vision provider configured.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.Init())

	config := &models.Config{
		Host: "127.0.0.1",
		Port: 8080,
		OCR:  models.OCRConfig{Engine: "tesseract", Language: "nor"},
	}
	h := NewHandler(config, nil, zerolog.Nop())
	return auth.JWTMiddleware(h.SetupRoutes())
}

func extractRequest(t *testing.T, token, rawText string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("rawText", rawText))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/extract-invoice", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestExtractInvoiceFromRawText(t *testing.T) {
	handler := newTestHandler(t)
	token, err := auth.GenerateToken("6f1f9a9e-0d3a-4f7e-8b65-2d9c1a40e001", "ola@garantiflyt.no", "Ola Hansen", "saksbehandler")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, extractRequest(t, token, "Fakturanr: 118845\nLeveringsadresse: Kantina AS"))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["saved_to_db"])

	invoice, ok := resp["invoice"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "118845", invoice["invoiceNumber"])
	assert.Equal(t, "Kantina AS", invoice["customerName"])
}

func TestExtractInvoiceNonUUIDUserStillResponds(t *testing.T) {
	// A validly signed token from an older deployment may carry a non-UUID
	// user id; extraction must answer normally instead of panicking.
	handler := newTestHandler(t)
	token, err := auth.GenerateToken("legacy-user-42", "kari@garantiflyt.no", "Kari Nordmann", "saksbehandler")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, extractRequest(t, token, "Fakturanr: 118845"))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["saved_to_db"])
}

func TestExtractInvoiceRequiresToken(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/extract-invoice", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
