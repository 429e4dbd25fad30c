// Package w2 handles conversion of W-2 tax form PDFs
package w2

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jramos/stmt2sheet/cmd/root"
	"jramos/stmt2sheet/internal/converter"
	"jramos/stmt2sheet/internal/exporter"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/pdftext"
)

// Cmd represents the w2 command
var Cmd = &cobra.Command{
	Use:   "w2",
	Short: "Extract W-2 tax form fields to CSV",
	Long: `W2 extracts employee, employer, and wage/withholding fields from
every W-2 form in the input PDF and writes one CSV row per form.

Example:
  stmt2sheet w2 -i w2_2025.pdf -o w2_2025.csv`,
	Run: w2Func,
}

func w2Func(cmd *cobra.Command, args []string) {
	input := root.SharedFlags.Input
	output := root.SharedFlags.Output
	if input == "" || output == "" {
		root.Log.Fatal("Input and output files must be specified")
	}

	conv := converter.New(root.Cfg, root.Log, pdftext.NewExtractor())

	records, err := conv.ConvertW2(context.Background(), input)
	if err != nil {
		root.Log.WithError(err).Fatal("W-2 extraction failed",
			logging.Field{Key: logging.FieldFile, Value: input},
		)
	}

	if err := exporter.NewCSVWriter(root.Log).WriteW2(output, records); err != nil {
		root.Log.WithError(err).Fatal("Failed to write output",
			logging.Field{Key: logging.FieldOutputFile, Value: output},
		)
	}

	root.Log.Info(fmt.Sprintf("Extracted %d W-2 forms", len(records)))
}
