package exporter

import (
	"fmt"
	"os"
	"strings"

	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

// maxMissedSamples bounds how many suspect lines are reprinted per document.
const maxMissedSamples = 5

// ReportWriter renders validation results as a plain-text report. The band
// function maps a confidence score to its label and comes from the validator
// so report and logs always agree.
type ReportWriter struct {
	log  logging.Logger
	band func(int) string
}

// NewReportWriter creates a validation report writer.
func NewReportWriter(logger logging.Logger, band func(int) string) *ReportWriter {
	return &ReportWriter{log: logger, band: band}
}

// Write renders all results to the report file at path.
func (w *ReportWriter) Write(path string, results []*models.ValidationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(w.Render(results)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	w.log.Info("wrote validation report",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(results)},
	)
	return nil
}

// Render builds the report text.
func (w *ReportWriter) Render(results []*models.ValidationResult) string {
	var b strings.Builder

	b.WriteString("EXTRACTION VALIDATION REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	needsReview := 0
	for _, r := range results {
		band := w.band(r.ConfidenceScore)
		if band == "needs review" {
			needsReview++
		}

		fmt.Fprintf(&b, "File: %s\n", r.File)
		fmt.Fprintf(&b, "  Type: %s\n", r.StatementType)
		fmt.Fprintf(&b, "  Extracted: %d of ~%d transaction lines\n", r.ExtractedCount, r.EstimatedTotal)

		if d := r.AmountDiscrepancy; d != nil {
			fmt.Fprintf(&b, "  Amount check: extracted %s vs statement %s (%s), off by %s\n",
				d.ExtractedTotal.StringFixed(2), d.StatementTotal.StringFixed(2),
				d.TotalType, d.Difference.StringFixed(2))
		} else {
			b.WriteString("  Amount check: ok\n")
		}

		if n := len(r.PotentialMissed); n > 0 {
			fmt.Fprintf(&b, "  Potential missed lines: %d\n", n)
			for i, m := range r.PotentialMissed {
				if i == maxMissedSamples {
					fmt.Fprintf(&b, "    ... and %d more\n", n-maxMissedSamples)
					break
				}
				fmt.Fprintf(&b, "    page %d line %d: %s\n", m.Page, m.Line, m.Text)
			}
		}

		fmt.Fprintf(&b, "  Confidence: %d/100 (%s)\n\n", r.ConfidenceScore, band)
	}

	fmt.Fprintf(&b, "Documents processed: %d, needing review: %d\n", len(results), needsReview)
	return b.String()
}
