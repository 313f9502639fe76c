package ocr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// TesseractOCR shells out to the tesseract CLI. OCR is an external
// capability from the pipeline's point of view: it returns raw text plus the
// engine-reported confidence, nothing more.
type TesseractOCR struct {
	language string
}

// NewTesseractOCR creates a new tesseract adapter.
func NewTesseractOCR(language string) *TesseractOCR {
	if language == "" {
		language = "nor"
	}
	return &TesseractOCR{language: language}
}

// ExtractText performs OCR on image bytes and returns the text and the mean
// word confidence in [0, 1] as reported by the engine.
func (t *TesseractOCR) ExtractText(imageBytes []byte) (string, float64, error) {
	tmpDir := os.TempDir()
	inputFile := filepath.Join(tmpDir, fmt.Sprintf("ocr_in_%d.jpg", os.Getpid()))

	if err := os.WriteFile(inputFile, imageBytes, 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write temp image: %w", err)
	}
	defer os.Remove(inputFile)

	// TSV output carries per-word confidence alongside the text.
	cmd := exec.Command("tesseract", inputFile, "stdout", "-l", t.language, "tsv")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", 0, fmt.Errorf("tesseract failed: %w - %s", err, stderr.String())
	}

	text, confidence := parseTSV(stdout.String())
	return text, confidence, nil
}

// parseTSV reassembles text lines from tesseract's TSV output and averages
// the word confidences. Rows with conf -1 are layout markers, not words.
func parseTSV(tsv string) (string, float64) {
	var (
		text      strings.Builder
		confSum   float64
		confCount int
		lastKey   string
	)

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue // header
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}

		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		// block/par/line numbers identify the text line a word belongs to
		key := cols[1] + ":" + cols[2] + ":" + cols[3] + ":" + cols[4]
		if lastKey != "" && key != lastKey {
			text.WriteString("\n")
		} else if lastKey != "" {
			text.WriteString(" ")
		}
		lastKey = key

		text.WriteString(word)
		confSum += conf
		confCount++
	}

	if confCount == 0 {
		return "", 0
	}
	return text.String(), confSum / float64(confCount) / 100
}
