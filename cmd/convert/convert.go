// Package convert handles conversion of a single statement PDF
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jramos/stmt2sheet/cmd/root"
	"jramos/stmt2sheet/internal/converter"
	"jramos/stmt2sheet/internal/exporter"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/pdftext"
	"jramos/stmt2sheet/internal/validator"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert one statement PDF to a spreadsheet",
	Long: `Convert extracts transactions from a single AmEx or Chase statement
PDF and writes them to the output file. The output format is keyed off the
extension: .xlsx writes a spreadsheet, .csv writes comma-separated values.

Example:
  stmt2sheet convert -i amex_jan.pdf -o amex_jan.xlsx`,
	Run: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) {
	input := root.SharedFlags.Input
	output := root.SharedFlags.Output
	if input == "" || output == "" {
		root.Log.Fatal("Input and output files must be specified")
	}

	conv := converter.New(root.Cfg, root.Log, pdftext.NewExtractor())

	result, err := conv.ConvertDocument(context.Background(), input)
	if err != nil {
		root.Log.WithError(err).Fatal("Conversion failed",
			logging.Field{Key: logging.FieldFile, Value: input},
		)
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".csv":
		err = exporter.NewCSVWriter(root.Log).WriteTransactions(output, result.Records)
	default:
		err = exporter.NewExcelWriter(root.Log).WriteTransactions(output, result.Records)
	}
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to write output",
			logging.Field{Key: logging.FieldOutputFile, Value: output},
		)
	}

	band := validator.New(root.Cfg, root.Log).Band(result.Validation.ConfidenceScore)
	root.Log.Info(fmt.Sprintf("Extracted %d transactions, confidence %d/100 (%s)",
		len(result.Records), result.Validation.ConfidenceScore, band))
}
