// Package validator cross-checks an extraction against the raw statement
// text it came from and scores the result 0-100. The check is deliberately
// looser than the parsers: every line that merely looks transaction-shaped
// counts toward the estimate, so the parsers are graded against an upper
// bound rather than against themselves.
package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/dateutils"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/merchant"
	"jramos/stmt2sheet/internal/models"
)

var (
	leadingDatePattern  = regexp.MustCompile(`^\d{1,2}/\d{1,2}(/\d{2,4})?\b`)
	trailingAmtPattern  = regexp.MustCompile(`(-?\$?[\d,]+\.\d{2})\s*$`)
	chaseShapePattern   = regexp.MustCompile(`^\d{1,2}/\d{1,2}\s*&?\s*.*\d{1,}(?:,\d{3})*\.\d{2}\s*$`)
	embeddedAmtPattern  = regexp.MustCompile(`(-?)\$?([\d,]+\.\d{2})`)
	noisePrefixes   = []string{"This Statement", "CHASE", "AMERICAN EXPRESS"}
	noiseSubstrings = []string{"Merchant Name", "Date of", "Transaction", "ACCOUNT ACTIVITY", "Page", "Statement"}
)

// statementTotalPatterns map a printed summary label to the regex that pulls
// out its dollar value, per issuer, in priority order.
var statementTotalPatterns = map[models.StatementType][]totalPattern{
	models.StatementTypeAmex: {
		{"new_charges", regexp.MustCompile(`(?i)New Charges.*?\$?([\d,]+\.\d{2})`)},
		{"total_charges", regexp.MustCompile(`(?i)Total Charges.*?\$?([\d,]+\.\d{2})`)},
		{"purchases", regexp.MustCompile(`(?i)Purchases.*?\$?([\d,]+\.\d{2})`)},
	},
	models.StatementTypeChase: {
		{"purchases", regexp.MustCompile(`(?i)Purchases.*?\$?([\d,]+\.\d{2})`)},
		{"new_charges", regexp.MustCompile(`(?i)New Charges.*?\$?([\d,]+\.\d{2})`)},
		{"total_activity", regexp.MustCompile(`(?i)Total.*?Activity.*?\$?([\d,]+\.\d{2})`)},
	},
}

type totalPattern struct {
	name string
	re   *regexp.Regexp
}

const penniesTolerance = "0.01"

// Validator grades extractions. It holds only configuration, so one instance
// serves any number of documents and repeated runs give identical results.
type Validator struct {
	log                      logging.Logger
	cleaner                  *merchant.Cleaner
	maxExtractionPenalty     float64
	maxMissedPenalty         float64
	maxAmountPenalty         float64
	missedTransactionPenalty float64
	ratioThreshold           float64
	extractionPenaltyWeight  float64
	discrepancyWeight        float64
	excellentThreshold       int
	goodThreshold            int
	yearCutoff               int
	now                      dateutils.Clock
}

// New creates a Validator from the configured scoring weights.
func New(cfg *config.Config, logger logging.Logger) *Validator {
	return NewWithClock(cfg, logger, time.Now)
}

// NewWithClock is New with an injected clock for deterministic tests.
func NewWithClock(cfg *config.Config, logger logging.Logger, now dateutils.Clock) *Validator {
	return &Validator{
		log:                      logger,
		cleaner:                  merchant.NewCleaner(cfg.Merchants.Cities),
		maxExtractionPenalty:     cfg.Validation.MaxExtractionPenalty,
		maxMissedPenalty:         cfg.Validation.MaxMissedPenalty,
		maxAmountPenalty:         cfg.Validation.MaxAmountPenalty,
		missedTransactionPenalty: cfg.Validation.MissedTransactionPenalty,
		ratioThreshold:           cfg.Validation.ExtractionRatioThreshold,
		extractionPenaltyWeight:  cfg.Validation.ExtractionPenaltyWeight,
		discrepancyWeight:        cfg.Validation.DiscrepancyPenaltyWeight,
		excellentThreshold:       cfg.Validation.ConfidenceExcellent,
		goodThreshold:            cfg.Validation.ConfidenceGood,
		yearCutoff:               cfg.Dates.TwoDigitYearCutoff,
		now:                      now,
	}
}

// Validate grades the records extracted from doc. It estimates the true
// transaction count from the raw text, checks the amount sum against the
// statement's own printed totals, hunts for transaction-shaped lines missing
// from the extraction, and folds everything into a confidence score.
func (v *Validator) Validate(doc *models.StatementDocument, records []models.TransactionRecord) *models.ValidationResult {
	result := &models.ValidationResult{
		File:           doc.Path,
		StatementType:  doc.Type,
		ExtractedCount: len(records),
		EstimatedTotal: v.estimateCount(doc),
	}

	result.AmountDiscrepancy = v.checkAmounts(doc, records)
	result.PotentialMissed = v.findMissed(doc, records)
	result.ConfidenceScore = v.score(result)

	v.log.Info("validated extraction",
		logging.Field{Key: logging.FieldFile, Value: doc.Path},
		logging.Field{Key: logging.FieldCount, Value: result.ExtractedCount},
		logging.Field{Key: logging.FieldScore, Value: result.ConfidenceScore},
	)
	return result
}

// Band names the confidence bracket a score falls into.
func (v *Validator) Band(score int) string {
	switch {
	case score >= v.excellentThreshold:
		return "excellent"
	case score >= v.goodThreshold:
		return "good"
	default:
		return "needs review"
	}
}

func (v *Validator) estimateCount(doc *models.StatementDocument) int {
	count := 0
	for _, page := range doc.Pages {
		for _, raw := range strings.Split(page, "\n") {
			if v.looksLikeTransaction(strings.TrimSpace(raw), doc.Type) {
				count++
			}
		}
	}
	return count
}

// looksLikeTransaction applies the loose per-issuer shape check. It accepts
// lines the strict parsers reject so the estimate errs toward overcounting.
func (v *Validator) looksLikeTransaction(line string, t models.StatementType) bool {
	if len(line) < 10 {
		return false
	}
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	for _, sub := range noiseSubstrings {
		if strings.Contains(line, sub) {
			return false
		}
	}

	switch t {
	case models.StatementTypeChase:
		return chaseShapePattern.MatchString(line)
	default:
		return leadingDatePattern.MatchString(line) &&
			trailingAmtPattern.MatchString(line) &&
			len(strings.Fields(line)) >= 3
	}
}

// checkAmounts sums the extracted amounts and compares them against every
// printed summary total found in the document, reporting the first one that
// disagrees. Differences within a cent are treated as rounding and ignored.
func (v *Validator) checkAmounts(doc *models.StatementDocument, records []models.TransactionRecord) *models.AmountDiscrepancy {
	extracted := decimal.Zero
	for _, r := range records {
		extracted = extracted.Add(r.Amount)
	}

	text := doc.FullText()
	for _, tp := range statementTotalPatterns[doc.Type] {
		match := tp.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		stated, err := models.ParseAmount(match[1])
		if err != nil {
			continue
		}

		diff := extracted.Sub(stated).Abs()
		if diff.LessThanOrEqual(decimal.RequireFromString(penniesTolerance)) {
			continue
		}
		return &models.AmountDiscrepancy{
			ExtractedTotal: extracted,
			StatementTotal: stated,
			TotalType:      tp.name,
			Difference:     diff,
		}
	}

	return nil
}

// findMissed re-walks the raw text and reports transaction-shaped lines whose
// signature does not appear in the extracted set.
func (v *Validator) findMissed(doc *models.StatementDocument, records []models.TransactionRecord) []models.MissedTransaction {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Signature()] = struct{}{}
	}

	var missed []models.MissedTransaction
	for pageIdx, page := range doc.Pages {
		for lineIdx, raw := range strings.Split(page, "\n") {
			line := strings.TrimSpace(raw)
			if !v.looksLikeTransaction(line, doc.Type) {
				continue
			}

			candidate, ok := v.quickParse(line, doc)
			if !ok {
				continue
			}
			if _, found := seen[candidate.Signature()]; found {
				continue
			}

			missed = append(missed, models.MissedTransaction{
				Page:     pageIdx + 1,
				Line:     lineIdx + 1,
				Text:     line,
				Date:     candidate.Date,
				Merchant: candidate.Merchant,
				Amount:   candidate.Amount.StringFixed(2),
			})
		}
	}
	return missed
}

// quickParse builds the comparison signature for a transaction-shaped line
// with the same normalization the parsers use, so an extracted line and its
// raw source produce identical signatures. A negative amount means a payment
// line, which the parsers skip on purpose.
func (v *Validator) quickParse(line string, doc *models.StatementDocument) (models.TransactionRecord, bool) {
	dateMatch := leadingDatePattern.FindString(line)
	if dateMatch == "" {
		return models.TransactionRecord{}, false
	}

	amtMatch := embeddedAmtPattern.FindAllStringSubmatch(line, -1)
	if len(amtMatch) == 0 {
		return models.TransactionRecord{}, false
	}
	last := amtMatch[len(amtMatch)-1]
	amount, err := models.ParseAmount(last[1] + last[2])
	if err != nil || !amount.IsPositive() {
		return models.TransactionRecord{}, false
	}

	date, ok := v.normalizeDate(dateMatch, doc)
	if !ok {
		return models.TransactionRecord{}, false
	}

	raw := strings.TrimSpace(line[len(dateMatch):])
	if idx := trailingAmtPattern.FindStringIndex(raw); idx != nil {
		raw = strings.TrimSpace(raw[:idx[0]])
	}
	raw = strings.TrimPrefix(raw, "& ")

	return models.TransactionRecord{Date: date, Merchant: v.cleaner.Clean(raw), Amount: amount}, true
}

// normalizeDate resolves a raw date token the same way the issuer parsers do:
// Chase bare dates take the billing-cycle year, everything else goes through
// the shared two-digit-year rules.
func (v *Validator) normalizeDate(token string, doc *models.StatementDocument) (string, bool) {
	if doc.Type == models.StatementTypeChase && doc.DateRange != nil && strings.Count(token, "/") == 1 {
		parts := strings.SplitN(token, "/", 2)
		month := 0
		for _, r := range parts[0] {
			month = month*10 + int(r-'0')
		}
		year := dateutils.CycleYear(month, doc.DateRange.StartMonth, doc.DateRange.StartYear, doc.DateRange.EndYear)
		return pad2(parts[0]) + "/" + pad2(parts[1]) + "/" + itoa(year), true
	}

	date, err := dateutils.ConvertDate(token, v.yearCutoff, v.now)
	if err != nil {
		return "", false
	}
	return date, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func itoa(year int) string {
	digits := []byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && year > 0; i-- {
		digits[i] = byte('0' + year%10)
		year /= 10
	}
	return string(digits)
}

// score folds the three evidence streams into a 0-100 confidence value. The
// function is pure: the same result always scores the same.
func (v *Validator) score(result *models.ValidationResult) int {
	score := 100.0

	if result.EstimatedTotal > 0 {
		ratio := float64(result.ExtractedCount) / float64(result.EstimatedTotal)
		if ratio < v.ratioThreshold {
			penalty := (1.0 - ratio) * v.extractionPenaltyWeight
			if penalty > v.maxExtractionPenalty {
				penalty = v.maxExtractionPenalty
			}
			score -= penalty
		}
	}

	if n := len(result.PotentialMissed); n > 0 {
		penalty := float64(n) * v.missedTransactionPenalty
		if penalty > v.maxMissedPenalty {
			penalty = v.maxMissedPenalty
		}
		score -= penalty
	}

	if d := result.AmountDiscrepancy; d != nil && d.ExtractedTotal.IsPositive() {
		percent, _ := d.Difference.Div(d.ExtractedTotal).Mul(decimal.NewFromInt(100)).Float64()
		penalty := percent * v.discrepancyWeight
		if penalty > v.maxAmountPenalty {
			penalty = v.maxAmountPenalty
		}
		score -= penalty
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}
