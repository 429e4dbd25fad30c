// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded configuration, available after PersistentPreRun
	Cfg *config.Config

	// SharedFlags holds the flags common to all commands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "stmt2sheet",
		Short: "Convert PDF credit-card statements and W-2 forms to spreadsheets.",
		Long: `stmt2sheet extracts transactions from American Express and Chase
statement PDFs, attributes each one to a cardholder, validates the
extraction against the raw document text, and writes xlsx or CSV output.
It also extracts W-2 tax form fields.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to stmt2sheet!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
				os.Exit(1)
			}

			if err := config.ApplyRuleOverrides(cfg, "rules.yaml"); err != nil {
				fmt.Fprintf(os.Stderr, "rule override error: %v\n", err)
				os.Exit(1)
			}

			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
}
