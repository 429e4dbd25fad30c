package exporter

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

// CSVWriter writes records as CSV, for callers that want the data without a
// spreadsheet application in the loop.
type CSVWriter struct {
	log logging.Logger
}

// NewCSVWriter creates a CSV exporter.
func NewCSVWriter(logger logging.Logger) *CSVWriter {
	return &CSVWriter{log: logger}
}

// WriteTransactions writes de-duplicated records to a CSV file at path.
func (w *CSVWriter) WriteTransactions(path string, records []models.TransactionRecord) error {
	records = Dedupe(records)
	return w.write(path, &records, len(records))
}

// WriteW2 writes W-2 records to a CSV file at path.
func (w *CSVWriter) WriteW2(path string, records []models.W2Record) error {
	return w.write(path, &records, len(records))
}

func (w *CSVWriter) write(path string, records interface{}, count int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(records, file); err != nil {
		return fmt.Errorf("failed to write CSV %s: %w", path, err)
	}

	w.log.Info("wrote CSV",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: count},
	)
	return nil
}
