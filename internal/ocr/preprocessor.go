package ocr

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// Preprocessor enhances invoice photos before OCR. Phone photos of paper
// invoices are low-contrast and slightly blurred; the filter chain below
// measurably improves tesseract's word confidence on them.
type Preprocessor struct{}

// NewPreprocessor creates a new image preprocessor.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// PreprocessImage applies grayscale, contrast, sharpen and brightness
// adjustments. On any decode/encode problem the original bytes are returned
// unchanged; preprocessing is best-effort.
func (p *Preprocessor) PreprocessImage(imageData []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return imageData, nil
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	// keep the upload from ballooning OCR time on huge camera images
	if img.Bounds().Dx() > 2000 || img.Bounds().Dy() > 2000 {
		img = imaging.Fit(img, 2000, 2000, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return imageData, nil
	}

	return buf.Bytes(), nil
}
