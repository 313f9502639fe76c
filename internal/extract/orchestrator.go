package extract

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/pattern"
	"github.com/garantiflyt/invoice-extract-service/internal/scoring"
)

// Orchestrator decides which extraction backend produces the base record and
// runs the correction, scoring and warning stages over it. Exactly one
// backend contributes the base record per invocation; backends are never
// merged field-by-field.
type Orchestrator struct {
	generic  *GenericExtractor
	myhrvold *MyhrvoldParser
	log      zerolog.Logger
}

// NewOrchestrator wires the pipeline over a shared catalog.
func NewOrchestrator(catalog *pattern.Catalog, log zerolog.Logger) *Orchestrator {
	generic := NewGenericExtractor(catalog)
	return &Orchestrator{
		generic:  generic,
		myhrvold: NewMyhrvoldParser(generic),
		log:      log,
	}
}

// Run turns one input into a final record plus warnings. Backend order:
//
//  1. a structurally valid vision payload is trusted as the base record;
//  2. else, vendor marker in the text AND a source file present → Myhrvold
//     table parser, falling through on its typed structural failure;
//  3. else, the generic extractor over raw text.
//
// Run never fails: the worst case is a near-empty record with confidence
// close to zero and warnings explaining why.
func (o *Orchestrator) Run(input models.ExtractionInput) (*models.ExtractedInvoice, []string) {
	var warnings []string

	inv := parseVisionJSON(input.VisionJSON, input.RawText)
	if inv == nil {
		if len(input.VisionJSON) > 0 {
			o.log.Debug().Msg("vision payload missing required keys, falling back to text extraction")
		}
		inv, warnings = o.extractFromText(input)
	}

	inv = CorrectSwappedCosts(inv)
	inv.Confidence = scoring.Score(inv, input.RawText)
	warnings = append(warnings, scoring.Warnings(inv, input.RawText)...)

	return inv, warnings
}

func (o *Orchestrator) extractFromText(input models.ExtractionInput) (*models.ExtractedInvoice, []string) {
	if input.File != nil && IsMyhrvoldInvoice(input.RawText) {
		// work on a copy; the caller's document stays untouched
		doc := *input.File
		if doc.Text == "" {
			doc.Text = input.RawText
		}
		inv, warnings, err := o.myhrvold.Extract(&doc)
		if err == nil {
			return inv, warnings
		}
		if errors.Is(err, ErrTableNotFound) {
			o.log.Warn().Str("file", doc.Filename).Msg("myhrvold table parse failed, using generic extractor")
		} else {
			o.log.Error().Err(err).Str("file", doc.Filename).Msg("myhrvold parser error, using generic extractor")
		}
	}
	return o.generic.Extract(input.RawText), nil
}
