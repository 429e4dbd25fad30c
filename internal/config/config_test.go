package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Convert", cfg.Folders.Convert)
	assert.Equal(t, "Excel", cfg.Folders.Output)
	assert.Equal(t, 50, cfg.Dates.TwoDigitYearCutoff)
	assert.Equal(t, "ACCOUNT HOLDER", cfg.Names.FallbackAccountHolder)
	assert.Contains(t, cfg.Names.AmexFalsePositives, "ACCOUNT SUMMARY")
	assert.Contains(t, cfg.Names.ChaseFalsePositives, "ACCOUNT SUMMARY")
	assert.Contains(t, cfg.Names.Particles, "DE")
	assert.InDelta(t, 50.0, cfg.Validation.MaxExtractionPenalty, 0.001)
	assert.InDelta(t, 0.95, cfg.Validation.ExtractionRatioThreshold, 0.001)
	assert.InDelta(t, 50.0, cfg.Validation.ExtractionPenaltyWeight, 0.001)
	assert.InDelta(t, 2.0, cfg.Validation.DiscrepancyPenaltyWeight, 0.001)
	assert.Equal(t, 95, cfg.Validation.ConfidenceExcellent)

	require.NoError(t, validateConfig(cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults pass", func(c *Config) {}, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"cutoff out of range", func(c *Config) { c.Dates.TwoDigitYearCutoff = 120 }, false},
		{"inverted confidence bands", func(c *Config) { c.Validation.ConfidenceExcellent = 80 }, false},
		{"ratio threshold above one", func(c *Config) { c.Validation.ExtractionRatioThreshold = 1.5 }, false},
		{"ratio threshold zero", func(c *Config) { c.Validation.ExtractionRatioThreshold = 0 }, false},
		{"empty fallback holder", func(c *Config) { c.Names.FallbackAccountHolder = "" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := validateConfig(cfg)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestApplyRuleOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"particles:\n  - DE\n  - VAN\nbusiness_terms:\n  - LLC\n"), 0o644))

	cfg := Default()
	originalAmex := cfg.Names.AmexFalsePositives

	require.NoError(t, ApplyRuleOverrides(cfg, path))

	assert.Equal(t, []string{"DE", "VAN"}, cfg.Names.Particles)
	assert.Equal(t, []string{"LLC"}, cfg.Names.BusinessTerms)
	// Lists absent from the file keep their defaults.
	assert.Equal(t, originalAmex, cfg.Names.AmexFalsePositives)
}

func TestApplyRuleOverridesMissingFileIsNotAnError(t *testing.T) {
	cfg := Default()
	assert.NoError(t, ApplyRuleOverrides(cfg, filepath.Join(t.TempDir(), "absent.yaml")))
}
