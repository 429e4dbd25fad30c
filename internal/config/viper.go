// Package config provides Viper-based hierarchical configuration management.
// Every rule table the parsers consume (detection keywords, name particles,
// false-positive phrase lists, scoring weights) lives here as data so it can
// be overridden without touching parsing logic.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Folders struct {
		Convert string `mapstructure:"convert" yaml:"convert"`
		Output  string `mapstructure:"output" yaml:"output"`
	} `mapstructure:"folders" yaml:"folders"`

	Detection struct {
		// Keyword tables drive both filename and body-text detection. The
		// first Chase keyword is the brand word; a body match also needs one
		// of the remaining keywords.
		AmexKeywords  []string `mapstructure:"amex_keywords" yaml:"amex_keywords"`
		ChaseKeywords []string `mapstructure:"chase_keywords" yaml:"chase_keywords"`
	} `mapstructure:"detection" yaml:"detection"`

	Dates struct {
		// TwoDigitYearCutoff: two-digit years >= cutoff resolve to 19xx,
		// below it to 20xx.
		TwoDigitYearCutoff int `mapstructure:"two_digit_year_cutoff" yaml:"two_digit_year_cutoff"`
	} `mapstructure:"dates" yaml:"dates"`

	Names struct {
		Particles           []string `mapstructure:"particles" yaml:"particles"`
		BusinessTerms       []string `mapstructure:"business_terms" yaml:"business_terms"`
		AmexFalsePositives  []string `mapstructure:"amex_false_positives" yaml:"amex_false_positives"`
		ChaseFalsePositives []string `mapstructure:"chase_false_positives" yaml:"chase_false_positives"`
		// FallbackAccountHolder is stamped on records when no cardholder
		// could be derived from the document at all.
		FallbackAccountHolder string `mapstructure:"fallback_account_holder" yaml:"fallback_account_holder"`
	} `mapstructure:"names" yaml:"names"`

	Merchants struct {
		// Cities are stripped from the tail of merchant descriptions, after
		// state codes. Upper-case.
		Cities []string `mapstructure:"cities" yaml:"cities"`
	} `mapstructure:"merchants" yaml:"merchants"`

	Validation struct {
		MaxExtractionPenalty     float64 `mapstructure:"max_extraction_penalty" yaml:"max_extraction_penalty"`
		MaxMissedPenalty         float64 `mapstructure:"max_missed_penalty" yaml:"max_missed_penalty"`
		MaxAmountPenalty         float64 `mapstructure:"max_amount_penalty" yaml:"max_amount_penalty"`
		MissedTransactionPenalty float64 `mapstructure:"missed_transaction_penalty" yaml:"missed_transaction_penalty"`
		// ExtractionRatioThreshold is the extracted/estimated ratio below
		// which the extraction penalty starts to apply.
		ExtractionRatioThreshold float64 `mapstructure:"extraction_ratio_threshold" yaml:"extraction_ratio_threshold"`
		ExtractionPenaltyWeight  float64 `mapstructure:"extraction_penalty_weight" yaml:"extraction_penalty_weight"`
		DiscrepancyPenaltyWeight float64 `mapstructure:"discrepancy_penalty_weight" yaml:"discrepancy_penalty_weight"`
		ConfidenceExcellent      int     `mapstructure:"confidence_excellent" yaml:"confidence_excellent"`
		ConfidenceGood           int     `mapstructure:"confidence_good" yaml:"confidence_good"`
	} `mapstructure:"validation" yaml:"validation"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then STMT2SHEET_-prefixed env vars.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.stmt2sheet")
	v.AddConfigPath(".stmt2sheet")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STMT2SHEET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file present but unreadable: keep going with defaults and env.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default instantiates a Config carrying only the built-in defaults. Used by
// tests and by library callers that do not want file/env lookup.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("default config failed to unmarshal: %v", err))
	}
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("folders.convert", "Convert")
	v.SetDefault("folders.output", "Excel")

	v.SetDefault("detection.amex_keywords", []string{
		"AMERICAN EXPRESS",
		"AMAZON BUSINESS PRIME CARD",
		"AMEX",
	})
	v.SetDefault("detection.chase_keywords", []string{
		"CHASE",
		"ULTIMATE REWARDS",
		"ACCOUNT ACTIVITY",
	})

	v.SetDefault("dates.two_digit_year_cutoff", 50)

	v.SetDefault("merchants.cities", []string{
		"SEATTLE", "PORTLAND", "DENVER", "AUSTIN", "DALLAS", "HOUSTON",
		"CHICAGO", "PHOENIX", "MIAMI", "ATLANTA", "BOSTON", "BROOKLYN",
	})

	v.SetDefault("names.particles", []string{
		"JR", "SR", "III", "IV", "II", "DE", "LA", "DEL", "VON", "VAN", "MC", "MAC",
	})
	v.SetDefault("names.business_terms", []string{
		"STN", "LLC", "INC", "CORP", "LTD", "CO", "STORE", "SHOP",
		"MARKET", "CENTER", "DEPOT", "STATION", "FUEL", "GAS", "OIL",
	})
	v.SetDefault("names.amex_false_positives", []string{
		"ACCOUNT SUMMARY", "ACCOUNT ENDING", "CARD ENDING", "CUSTOMER CARE", "AMAZON BUSINESS",
		"AMERICAN EXPRESS", "PAYMENT TERMS", "NEW CHARGES", "TOTAL BALANCE",
		"MINIMUM PAYMENT", "INTEREST CHARGED", "DETAIL CONTINUED", "AMOUNT ENCLOSED",
		"SERVICE STN", "FAST FOOD", "RESTAURANT", "GAS STATION", "AUTO PAY",
		"GROCERY OUTLET", "UNION", "CHEVRON", "SHELL OIL", "MOBILE", "ARCO",
		"SAFEWAY", "COSTCO", "TARGET", "WALMART", "HOME DEPOT",
	})
	v.SetDefault("names.chase_false_positives", []string{
		"ACCOUNT SUMMARY", "ACCOUNT ACTIVITY", "ACCOUNT MESSAGES", "ACCOUNT NUMBER",
		"CHASE ULTIMATE", "ULTIMATE REWARDS", "CUSTOMER SERVICE", "PAYMENT DUE",
		"NEW BALANCE", "MINIMUM PAYMENT", "TRANSACTIONS THIS", "INCLUDING PAYMENTS",
		"PREVIOUS BALANCE", "CASH ADVANCES", "BALANCE TRANSFERS", "INTEREST CHARGED",
		"LATE PAYMENT", "OVERLIMIT FEE", "ANNUAL FEE", "FINANCE CHARGE",
		"SERVICE STATION", "GAS STATION", "GROCERY STORE", "DEPARTMENT STORE",
		"FAST FOOD", "RESTAURANT", "COFFEE SHOP", "AUTO PARTS", "HOME DEPOT",
	})
	v.SetDefault("names.fallback_account_holder", "ACCOUNT HOLDER")

	v.SetDefault("validation.max_extraction_penalty", 50.0)
	v.SetDefault("validation.max_missed_penalty", 30.0)
	v.SetDefault("validation.max_amount_penalty", 25.0)
	v.SetDefault("validation.missed_transaction_penalty", 5.0)
	v.SetDefault("validation.extraction_ratio_threshold", 0.95)
	v.SetDefault("validation.extraction_penalty_weight", 50.0)
	v.SetDefault("validation.discrepancy_penalty_weight", 2.0)
	v.SetDefault("validation.confidence_excellent", 95)
	v.SetDefault("validation.confidence_good", 85)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Dates.TwoDigitYearCutoff < 0 || config.Dates.TwoDigitYearCutoff > 99 {
		return fmt.Errorf("dates.two_digit_year_cutoff must be between 0 and 99, got: %d",
			config.Dates.TwoDigitYearCutoff)
	}

	if config.Validation.ExtractionRatioThreshold <= 0 || config.Validation.ExtractionRatioThreshold > 1 {
		return fmt.Errorf("validation.extraction_ratio_threshold must be in (0, 1], got: %v",
			config.Validation.ExtractionRatioThreshold)
	}

	if config.Validation.ConfidenceExcellent < config.Validation.ConfidenceGood {
		return fmt.Errorf("validation.confidence_excellent (%d) must be >= confidence_good (%d)",
			config.Validation.ConfidenceExcellent, config.Validation.ConfidenceGood)
	}

	if config.Names.FallbackAccountHolder == "" {
		return fmt.Errorf("names.fallback_account_holder must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures a logrus logger based on the Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
