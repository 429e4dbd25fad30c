// Package w2parser extracts W-2 tax form fields from PDF text. W-2 layouts
// are fixed enough that each form is located by its social security number
// label and parsed with positional rules, with no cardholder attribution
// involved.
package w2parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
	"jramos/stmt2sheet/internal/nameval"
)

var (
	ssnPattern    = regexp.MustCompile(`\b(\d{3}-\d{2}-\d{4})\b`)
	numberPattern = regexp.MustCompile(`[\d,]+\.\d{2}`)
	digitsPattern = regexp.MustCompile(`[\d\-]`)
)

// formBoundaryLines is how far above an SSN anchor a form's fields may start.
const formBoundaryLines = 10

// wagesFloor rejects box numbers that are really box labels ("1", "2") or
// control digits rather than dollar figures.
var wagesFloor = decimal.NewFromInt(100)

// Parser extracts W2Records from W-2 form text.
type Parser struct {
	log   logging.Logger
	names *nameval.Validator
}

// New creates a W-2 parser.
func New(cfg *config.Config, logger logging.Logger) *Parser {
	return &Parser{
		log:   logger,
		names: nameval.New(cfg.Names.Particles, cfg.Names.BusinessTerms, nil, 4),
	}
}

// ParseDocument extracts every W-2 form in the document. A multi-form PDF
// (employer copies, state copies) yields one record per distinct form
// occurrence; the caller de-duplicates identical copies.
func (p *Parser) ParseDocument(doc *models.StatementDocument) []models.W2Record {
	lines := strings.Split(doc.FullText(), "\n")

	anchors := findAnchors(lines)
	if len(anchors) == 0 {
		p.log.Warn("no W-2 forms found",
			logging.Field{Key: logging.FieldFile, Value: doc.Path},
		)
		return nil
	}

	var records []models.W2Record
	for i, anchor := range anchors {
		start := anchor - formBoundaryLines
		if start < 0 {
			start = 0
		}
		end := len(lines)
		if i+1 < len(anchors) {
			end = anchors[i+1] - formBoundaryLines
			if end < anchor {
				end = anchor + 1
			}
		}

		record, ok := p.parseForm(lines[start:end], anchor-start)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	p.log.Info("parsed W-2 document",
		logging.Field{Key: logging.FieldFile, Value: doc.Path},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
	)
	return records
}

// findAnchors returns the indices of lines holding an SSN that follow a
// "social security number" label within the preceding two lines.
func findAnchors(lines []string) []int {
	var anchors []int
	for i, line := range lines {
		if !ssnPattern.MatchString(line) {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if strings.Contains(strings.ToLower(lines[j]), "social security number") {
				anchors = append(anchors, i)
				break
			}
		}
	}
	return anchors
}

// parseForm extracts one form's fields from its line window. anchorIdx is the
// SSN line's index within the window.
func (p *Parser) parseForm(window []string, anchorIdx int) (models.W2Record, bool) {
	ssn := ssnPattern.FindString(window[anchorIdx])
	if ssn == "" {
		return models.W2Record{}, false
	}

	record := models.W2Record{SSN: ssn}

	for i := anchorIdx + 1; i < len(window); i++ {
		line := strings.TrimSpace(window[i])
		if record.Employee == "" && p.names.IsValidName(line) {
			record.Employee = line
		}

		lower := strings.ToLower(line)
		if record.Employer == "" && strings.Contains(lower, "employer's name") && i+1 < len(window) {
			record.Employer = cleanEmployer(window[i+1])
		}

		if record.Wages.IsZero() && strings.Contains(lower, "wages") && strings.Contains(lower, "tips") {
			record.Wages = firstAmountAbove(line, wagesFloor)
		}
		if record.FederalTax.IsZero() && strings.Contains(lower, "federal income tax") {
			record.FederalTax = firstAmountAbove(line, decimal.Zero)
		}
		if record.StateTax.IsZero() && strings.Contains(lower, "state income tax") {
			record.StateTax = lastAmount(line)
		}
	}

	if record.Employee == "" && record.Employer == "" {
		return models.W2Record{}, false
	}
	return record, true
}

// cleanEmployer strips digits and address fragments from an employer line,
// which on compressed layouts run together with the EIN.
func cleanEmployer(line string) string {
	cleaned := digitsPattern.ReplaceAllString(line, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

func firstAmountAbove(line string, floor decimal.Decimal) decimal.Decimal {
	for _, match := range numberPattern.FindAllString(line, -1) {
		amount, err := models.ParseAmount(match)
		if err != nil {
			continue
		}
		if amount.GreaterThan(floor) {
			return amount
		}
	}
	return decimal.Zero
}

func lastAmount(line string) decimal.Decimal {
	matches := numberPattern.FindAllString(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		amount, err := models.ParseAmount(matches[i])
		if err == nil && amount.IsPositive() {
			return amount
		}
	}
	return decimal.Zero
}
