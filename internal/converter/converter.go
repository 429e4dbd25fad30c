// Package converter orchestrates the document pipeline: page extraction,
// issuer detection, parsing, and validation. Batch mode walks a folder and
// pools results per issuer; one bad document never stops the batch.
package converter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jramos/stmt2sheet/internal/amexparser"
	"jramos/stmt2sheet/internal/chaseparser"
	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/detect"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
	"jramos/stmt2sheet/internal/parsererror"
	"jramos/stmt2sheet/internal/pdftext"
	"jramos/stmt2sheet/internal/validator"
	"jramos/stmt2sheet/internal/w2parser"
)

// Converter runs statement PDFs through the full extraction pipeline.
type Converter struct {
	log       logging.Logger
	extractor pdftext.PageExtractor
	detector  *detect.Detector
	amex      *amexparser.Parser
	chase     *chaseparser.Parser
	w2        *w2parser.Parser
	validator *validator.Validator
}

// DocumentResult is the outcome of one statement document.
type DocumentResult struct {
	Document   *models.StatementDocument
	Records    []models.TransactionRecord
	Validation *models.ValidationResult
}

// BatchResult pools the outcomes of a folder run per issuer.
type BatchResult struct {
	AmexRecords  []models.TransactionRecord
	ChaseRecords []models.TransactionRecord
	Validations  []*models.ValidationResult
	Processed    int
	Failed       int
}

// New wires a Converter from configuration. The extractor is injected so
// tests can run without poppler installed.
func New(cfg *config.Config, logger logging.Logger, extractor pdftext.PageExtractor) *Converter {
	return &Converter{
		log:       logger,
		extractor: extractor,
		detector:  detect.New(cfg, logger),
		amex:      amexparser.New(cfg, logger),
		chase:     chaseparser.New(cfg, logger),
		w2:        w2parser.New(cfg, logger),
		validator: validator.New(cfg, logger),
	}
}

// ConvertDocument runs one statement PDF through extraction, detection,
// parsing, and validation.
func (c *Converter) ConvertDocument(ctx context.Context, path string) (*DocumentResult, error) {
	pages, err := c.extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := &models.StatementDocument{Path: path, Pages: pages}
	doc.Type = c.detector.DetectType(path, doc.FullText())

	var records []models.TransactionRecord
	switch doc.Type {
	case models.StatementTypeAmex:
		records = c.amex.ParseDocument(doc)
	case models.StatementTypeChase:
		records = c.chase.ParseDocument(doc)
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "AmEx or Chase statement",
			Msg:            "statement type not recognized",
		}
	}

	return &DocumentResult{
		Document:   doc,
		Records:    records,
		Validation: c.validator.Validate(doc, records),
	}, nil
}

// ConvertW2 runs one W-2 form PDF through extraction and the fixed-field
// parser. W-2 documents are never validated against statement heuristics.
func (c *Converter) ConvertW2(ctx context.Context, path string) ([]models.W2Record, error) {
	pages, err := c.extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := &models.StatementDocument{Path: path, Pages: pages}
	records := c.w2.ParseDocument(doc)
	if len(records) == 0 {
		return nil, &parsererror.DataExtractionError{
			FilePath:  path,
			FieldName: "forms",
			Reason:    "no W-2 forms found in document",
		}
	}
	return records, nil
}

// ConvertBatch processes every PDF in inputDir, pooling transactions per
// issuer. Documents that fail are logged and counted, not fatal.
func (c *Converter) ConvertBatch(ctx context.Context, inputDir string) (*BatchResult, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: inputDir, Reason: "input folder not readable"}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(inputDir, entry.Name()))
		}
	}
	sort.Strings(paths)

	result := &BatchResult{}
	for _, path := range paths {
		docResult, err := c.ConvertDocument(ctx, path)
		if err != nil {
			c.log.WithError(err).Warn("skipping document",
				logging.Field{Key: logging.FieldFile, Value: path},
			)
			result.Failed++
			continue
		}

		switch docResult.Document.Type {
		case models.StatementTypeAmex:
			result.AmexRecords = append(result.AmexRecords, docResult.Records...)
		case models.StatementTypeChase:
			result.ChaseRecords = append(result.ChaseRecords, docResult.Records...)
		}
		result.Validations = append(result.Validations, docResult.Validation)
		result.Processed++
	}

	c.log.Info("batch complete",
		logging.Field{Key: logging.FieldCount, Value: result.Processed},
		logging.Field{Key: "failed", Value: result.Failed},
	)
	return result, nil
}
