// Package exporter writes extraction results out: xlsx spreadsheets, CSV
// files, and the plain-text validation report.
package exporter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

const sheetName = "Transactions"

var transactionHeader = []string{"Name", "Date", "Merchant", "Amount"}

// columnWidths sizes the output for the typical field lengths.
var columnWidths = map[string]float64{
	"A": 24, // Name
	"B": 12, // Date
	"C": 36, // Merchant
	"D": 12, // Amount
}

// ExcelWriter writes transaction spreadsheets.
type ExcelWriter struct {
	log logging.Logger
	now func() time.Time
}

// NewExcelWriter creates an xlsx exporter.
func NewExcelWriter(logger logging.Logger) *ExcelWriter {
	return &ExcelWriter{log: logger, now: time.Now}
}

// WriteTransactions writes records to an xlsx file at path. Records are
// de-duplicated first.
func (w *ExcelWriter) WriteTransactions(path string, records []models.TransactionRecord) error {
	records = Dedupe(records)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, title := range transactionHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	for i, r := range records {
		row := i + 2
		amount, _ := r.Amount.Float64()
		values := []interface{}{r.Name, r.Date, r.Merchant, amount}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	w.log.Info("wrote spreadsheet",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
	)
	return nil
}

// CombinedPath builds the timestamped per-issuer output path, e.g.
// Excel/AmEx_Combined_20250123_154500.xlsx.
func (w *ExcelWriter) CombinedPath(outputDir string, t models.StatementType) string {
	var stem string
	switch t {
	case models.StatementTypeAmex:
		stem = "AmEx_Combined"
	case models.StatementTypeChase:
		stem = "Chase_Combined"
	default:
		stem = "Statements_Combined"
	}
	stamp := w.now().Format("20060102_150405")
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.xlsx", stem, stamp))
}
