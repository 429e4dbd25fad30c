// Package detect decides which issuer a statement PDF came from. The filename
// is checked first because batch users name their downloads after the card,
// then the document text settles anything the filename leaves open.
package detect

import (
	"path/filepath"
	"strings"

	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

// Detector classifies statement documents by issuer.
type Detector struct {
	log           logging.Logger
	amexKeywords  []string
	chaseKeywords []string
}

// New creates a Detector from the configured keyword tables.
func New(cfg *config.Config, logger logging.Logger) *Detector {
	return &Detector{
		log:           logger,
		amexKeywords:  cfg.Detection.AmexKeywords,
		chaseKeywords: cfg.Detection.ChaseKeywords,
	}
}

// DetectType resolves the issuer for a document. Filename keywords win; when
// the filename is neutral the first pages of text are scanned. Documents
// matching neither table come back as StatementTypeUnknown.
func (d *Detector) DetectType(path string, text string) models.StatementType {
	if t := d.fromFilename(path); t != models.StatementTypeUnknown {
		return t
	}

	t := d.fromText(text)
	if t == models.StatementTypeUnknown {
		d.log.Warn("unrecognized statement type",
			logging.Field{Key: logging.FieldFile, Value: path},
		)
	}
	return t
}

func (d *Detector) fromFilename(path string) models.StatementType {
	name := strings.ToLower(filepath.Base(path))

	if containsAny(name, d.amexKeywords) {
		return models.StatementTypeAmex
	}
	if containsAny(name, d.chaseKeywords) {
		return models.StatementTypeChase
	}
	return models.StatementTypeUnknown
}

// fromText scans the document body against the same configured keyword tables
// the filename check uses. AmEx matches on any keyword; Chase needs its brand
// keyword (the first table entry) plus one corroborating product keyword,
// because "Chase" alone shows up in unrelated documents.
func (d *Detector) fromText(text string) models.StatementType {
	lower := strings.ToLower(text)

	if containsAny(lower, d.amexKeywords) {
		return models.StatementTypeAmex
	}
	if brandCorroborated(lower, d.chaseKeywords) {
		return models.StatementTypeChase
	}
	return models.StatementTypeUnknown
}

func brandCorroborated(text string, keywords []string) bool {
	if len(keywords) == 0 || !strings.Contains(text, strings.ToLower(keywords[0])) {
		return false
	}
	if len(keywords) == 1 {
		return true
	}
	return containsAny(text, keywords[1:])
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
