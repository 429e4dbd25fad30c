package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuleOverrides is the shape of an optional rules.yaml file that replaces the
// built-in name-validation tables wholesale. Empty lists leave the configured
// defaults in place.
type RuleOverrides struct {
	Particles           []string `yaml:"particles"`
	BusinessTerms       []string `yaml:"business_terms"`
	AmexFalsePositives  []string `yaml:"amex_false_positives"`
	ChaseFalsePositives []string `yaml:"chase_false_positives"`
}

// FindRulesFile looks for a rules file in the standard locations: the given
// path itself, the working directory, ./config, and ~/.config/stmt2sheet.
func FindRulesFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "stmt2sheet", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// ApplyRuleOverrides loads rules.yaml (if present) and merges any non-empty
// lists into cfg. A missing file is not an error.
func ApplyRuleOverrides(cfg *Config, filename string) error {
	if filename == "" {
		filename = "rules.yaml"
	}

	path, err := FindRulesFile(filename)
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- resolved from known config locations
	if err != nil {
		return fmt.Errorf("error reading rules file %s: %w", path, err)
	}

	var overrides RuleOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	if len(overrides.Particles) > 0 {
		cfg.Names.Particles = overrides.Particles
	}
	if len(overrides.BusinessTerms) > 0 {
		cfg.Names.BusinessTerms = overrides.BusinessTerms
	}
	if len(overrides.AmexFalsePositives) > 0 {
		cfg.Names.AmexFalsePositives = overrides.AmexFalsePositives
	}
	if len(overrides.ChaseFalsePositives) > 0 {
		cfg.Names.ChaseFalsePositives = overrides.ChaseFalsePositives
	}

	return nil
}
