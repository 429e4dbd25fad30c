// Package batch handles batch processing of statement folders
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jramos/stmt2sheet/cmd/root"
	"jramos/stmt2sheet/internal/converter"
	"jramos/stmt2sheet/internal/exporter"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
	"jramos/stmt2sheet/internal/pdftext"
	"jramos/stmt2sheet/internal/validator"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every statement PDF in a folder",
	Long: `Batch processes all PDF files in the input directory, pools the
extracted transactions per issuer, and writes timestamped AmEx_Combined and
Chase_Combined spreadsheets plus a validation report to the output directory.

With no flags the configured Convert and Excel folders are used.

Example:
  stmt2sheet batch -i Convert/ -o Excel/`,
	Run: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) {
	inputDir := root.SharedFlags.Input
	if inputDir == "" {
		inputDir = root.Cfg.Folders.Convert
	}
	outputDir := root.SharedFlags.Output
	if outputDir == "" {
		outputDir = root.Cfg.Folders.Output
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		root.Log.WithError(err).Fatal("Failed to create output directory")
	}

	conv := converter.New(root.Cfg, root.Log, pdftext.NewExtractor())

	result, err := conv.ConvertBatch(context.Background(), inputDir)
	if err != nil {
		root.Log.WithError(err).Fatal("Batch conversion failed")
	}

	excel := exporter.NewExcelWriter(root.Log)
	filesWritten := 0

	if len(result.AmexRecords) > 0 {
		path := excel.CombinedPath(outputDir, models.StatementTypeAmex)
		if err := excel.WriteTransactions(path, result.AmexRecords); err != nil {
			root.Log.WithError(err).Error("Failed to write AmEx spreadsheet")
		} else {
			filesWritten++
		}
	}
	if len(result.ChaseRecords) > 0 {
		path := excel.CombinedPath(outputDir, models.StatementTypeChase)
		if err := excel.WriteTransactions(path, result.ChaseRecords); err != nil {
			root.Log.WithError(err).Error("Failed to write Chase spreadsheet")
		} else {
			filesWritten++
		}
	}

	if len(result.Validations) > 0 {
		v := validator.New(root.Cfg, root.Log)
		report := exporter.NewReportWriter(root.Log, v.Band)
		reportPath := filepath.Join(outputDir, "validation_report.txt")
		if err := report.Write(reportPath, result.Validations); err != nil {
			root.Log.WithError(err).Error("Failed to write validation report")
		} else {
			filesWritten++
		}
	}

	total := len(result.AmexRecords) + len(result.ChaseRecords)
	root.Log.Info(fmt.Sprintf("Batch complete: %d documents processed, %d failed, %d transactions, %d files written",
		result.Processed, result.Failed, total, filesWritten),
		logging.Field{Key: logging.FieldCount, Value: total},
	)
}
