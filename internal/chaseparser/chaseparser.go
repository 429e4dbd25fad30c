// Package chaseparser extracts transactions from Chase statement text. Chase
// statements name the primary account holder once in the address block and
// introduce each card section with a "TRANSACTIONS THIS CYCLE" banner, so the
// parser runs a document pre-pass before the page walk.
package chaseparser

import (
	"regexp"
	"strings"
	"time"

	"jramos/stmt2sheet/internal/attribution"
	"jramos/stmt2sheet/internal/classify"
	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/dateutils"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/merchant"
	"jramos/stmt2sheet/internal/models"
	"jramos/stmt2sheet/internal/nameval"
)

var (
	// transactionPattern matches "MM/DD [&] MERCHANT ... AMOUNT". The optional
	// ampersand marks shared-account lines on some Chase layouts.
	transactionPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2})\s*(&?)\s*(.+?)\s+(-?\d{1,}(?:,\d{3})*\.\d{2})$`)

	dateRangePattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})\s*-\s*(\d{1,2}/\d{1,2}/\d{2,4})`)

	cityStateZipPattern = regexp.MustCompile(`[A-Z]{2}\s+\d{5}(-\d{4})?$`)

	sectionBannerPattern = regexp.MustCompile(`(?i)TRANSACTIONS THIS CYCLE`)
)

// addressSkipWords disqualify a line from being the addressee name in the
// statement header block.
var addressSkipWords = []string{"CHASE", "ACCOUNT", "STATEMENT", "PAGE", "DATE"}

// streetKeywords identify the street line that must follow the addressee.
var streetKeywords = []string{"ST", "AVE", "BLVD", "DR", "RD", "LN", "CT", "WAY", "PL", "APT", "UNIT", "SUITE", "PO BOX"}

// addressSearchLimit bounds the primary-holder scan to the top of page one.
const addressSearchLimit = 50

// sectionLookback is how many non-blank lines above a section banner may name
// the cardholder the section belongs to.
const sectionLookback = 3

// nameLookahead is how far below a standalone name line a section banner or
// transaction must appear for the name to switch attribution.
const nameLookahead = 7

// Parser parses Chase statement pages.
type Parser struct {
	log        logging.Logger
	rules      classify.Rules
	names      *nameval.Validator
	cleaner    *merchant.Cleaner
	fallback   string
	yearCutoff int
	now        dateutils.Clock
}

// New creates a Chase parser wired from the configured rule tables.
func New(cfg *config.Config, logger logging.Logger) *Parser {
	return NewWithClock(cfg, logger, time.Now)
}

// NewWithClock is New with an injected clock for deterministic tests.
func NewWithClock(cfg *config.Config, logger logging.Logger, now dateutils.Clock) *Parser {
	return &Parser{
		log:        logger,
		rules:      classify.ChaseRules(),
		names:      nameval.New(cfg.Names.Particles, cfg.Names.BusinessTerms, cfg.Names.ChaseFalsePositives, 5),
		cleaner:    merchant.NewCleaner(cfg.Merchants.Cities),
		fallback:   cfg.Names.FallbackAccountHolder,
		yearCutoff: cfg.Dates.TwoDigitYearCutoff,
		now:        now,
	}
}

// ParseDocument runs the full Chase pipeline: the primary holder and billing
// cycle come from a pre-pass over page one, then every page is walked with a
// fresh attribution state seeded with the primary holder.
func (p *Parser) ParseDocument(doc *models.StatementDocument) []models.TransactionRecord {
	if doc.PrimaryAccountHolder == "" && len(doc.Pages) > 0 {
		doc.PrimaryAccountHolder = p.ExtractPrimaryAccountHolder(doc.Pages[0])
	}
	if doc.DateRange == nil {
		doc.DateRange = p.ExtractDateRange(doc.FullText())
	}

	state := attribution.NewState(doc.PrimaryAccountHolder)

	var records []models.TransactionRecord
	for i, page := range doc.Pages {
		records = append(records, p.ParsePage(page, i+1, state, doc)...)
	}

	p.log.Info("parsed chase document",
		logging.Field{Key: logging.FieldFile, Value: doc.Path},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldCardholder, Value: doc.PrimaryAccountHolder},
	)
	return records
}

// ExtractPrimaryAccountHolder scans the top of page one for the mailing
// address block: an upper-case person name followed within two lines by a
// street line, followed by a city/state/zip line. It returns "" when no block
// matches.
func (p *Parser) ExtractPrimaryAccountHolder(pageOne string) string {
	lines := strings.Split(pageOne, "\n")
	if len(lines) > addressSearchLimit {
		lines = lines[:addressSearchLimit]
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if len(line) < 5 || containsAnyUpper(line, addressSkipWords) {
			continue
		}
		if !p.names.IsValidName(line) {
			continue
		}

		streetAt := -1
		for j := i + 1; j <= i+2 && j < len(lines); j++ {
			if isStreetLine(strings.TrimSpace(lines[j])) {
				streetAt = j
				break
			}
		}
		if streetAt < 0 {
			continue
		}

		for j := streetAt + 1; j <= streetAt+2 && j < len(lines); j++ {
			if cityStateZipPattern.MatchString(strings.TrimSpace(lines[j])) {
				return line
			}
		}
	}

	return ""
}

// ExtractDateRange finds the billing cycle from the "Opening/Closing Date"
// label. The range may sit on the label line itself or on the next line.
func (p *Parser) ExtractDateRange(text string) *models.DateRange {
	lines := strings.Split(text, "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.Contains(line, "Opening/Closing Date") {
			continue
		}

		match := dateRangePattern.FindStringSubmatch(line)
		if match == nil && i+1 < len(lines) {
			match = dateRangePattern.FindStringSubmatch(lines[i+1])
		}
		if match == nil {
			continue
		}

		rng, err := buildDateRange(match[1], match[2], p.yearCutoff)
		if err != nil {
			p.log.Warn("unparseable billing cycle",
				logging.Field{Key: logging.FieldLine, Value: line},
			)
			continue
		}
		return rng
	}

	return nil
}

func buildDateRange(startStr, endStr string, cutoff int) (*models.DateRange, error) {
	start, err := dateutils.ParseAbsolute(normalizeYear(startStr, cutoff))
	if err != nil {
		return nil, err
	}
	end, err := dateutils.ParseAbsolute(normalizeYear(endStr, cutoff))
	if err != nil {
		return nil, err
	}

	return &models.DateRange{
		Start:      start,
		End:        end,
		StartMonth: int(start.Month()),
		EndMonth:   int(end.Month()),
		StartYear:  start.Year(),
		EndYear:    end.Year(),
	}, nil
}

func normalizeYear(dateStr string, cutoff int) string {
	parts := strings.Split(dateStr, "/")
	if len(parts) == 3 && len(parts[2]) == 2 {
		yy := 0
		for _, r := range parts[2] {
			yy = yy*10 + int(r-'0')
		}
		return parts[0] + "/" + parts[1] + "/" + itoa4(dateutils.ResolveTwoDigitYear(yy, cutoff))
	}
	return dateStr
}

func itoa4(year int) string {
	digits := []byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && year > 0; i-- {
		digits[i] = byte('0' + year%10)
		year /= 10
	}
	return string(digits)
}

// ParsePage extracts the transactions of one page, updating the shared
// attribution state as card sections come and go.
func (p *Parser) ParsePage(pageText string, pageNum int, state *attribution.State, doc *models.StatementDocument) []models.TransactionRecord {
	var records []models.TransactionRecord

	lines := strings.Split(pageText, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if sectionBannerPattern.MatchString(line) && strings.Contains(strings.ToUpper(line), "CARD") {
			if name, ok := p.sectionCardholder(lines, i); ok {
				if state.Switch(name) {
					p.log.Debug("cardholder switch",
						logging.Field{Key: logging.FieldCardholder, Value: name},
						logging.Field{Key: logging.FieldPage, Value: pageNum},
					)
				}
			}
			continue
		}

		switch p.rules.Classify(line) {
		case classify.KindNoise, classify.KindContinuation:
			continue
		}

		if name, ok := p.extractInlineName(lines, i); ok {
			if name == doc.PrimaryAccountHolder {
				// A restated primary name ends the secondary section.
				if state.Switch(name) {
					p.log.Debug("primary holder restated",
						logging.Field{Key: logging.FieldPage, Value: pageNum},
					)
				}
			} else {
				state.Switch(name)
			}
			continue
		}

		record, ok := p.parseTransactionLine(line, doc.DateRange)
		if !ok {
			continue
		}
		record.Name = state.CurrentOr(p.fallback)
		records = append(records, record)
	}

	return records
}

// sectionCardholder looks up to sectionLookback non-blank lines above a
// section banner for the cardholder the section belongs to. Chase prints the
// name on the banner line itself on some layouts, so that is checked first.
func (p *Parser) sectionCardholder(lines []string, bannerIdx int) (string, bool) {
	banner := strings.TrimSpace(lines[bannerIdx])
	if idx := sectionBannerPattern.FindStringIndex(banner); idx != nil {
		prefix := strings.TrimSpace(banner[:idx[0]])
		if p.names.IsValidName(prefix) {
			return prefix, true
		}
	}

	seen := 0
	for j := bannerIdx - 1; j >= 0 && seen < sectionLookback; j-- {
		candidate := strings.TrimSpace(lines[j])
		if candidate == "" {
			continue
		}
		seen++
		if p.names.IsValidName(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// extractInlineName recognizes a standalone upper-case cardholder line
// outside any banner context. A bare name line only counts when a section
// banner or a transaction-shaped line follows within nameLookahead lines;
// without that corroboration a wrapped merchant name would reattribute
// everything after it.
func (p *Parser) extractInlineName(lines []string, idx int) (string, bool) {
	line := strings.TrimSpace(lines[idx])
	if classify.IsNameVeto(line) {
		return "", false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 5 || len(line) > 40 {
		return "", false
	}
	if strings.ContainsAny(line, "0123456789$./") {
		return "", false
	}
	if !p.names.IsValidName(line) {
		return "", false
	}

	for j := idx + 1; j <= idx+nameLookahead && j < len(lines); j++ {
		next := strings.TrimSpace(lines[j])
		if sectionBannerPattern.MatchString(next) || transactionPattern.MatchString(next) {
			return line, true
		}
	}
	return "", false
}

// parseTransactionLine matches one Chase transaction line. The Date field is
// stamped with the billing-cycle year when the cycle is known, which keeps
// December transactions on a January statement in the earlier year.
func (p *Parser) parseTransactionLine(line string, cycle *models.DateRange) (models.TransactionRecord, bool) {
	match := transactionPattern.FindStringSubmatch(line)
	if match == nil {
		return models.TransactionRecord{}, false
	}

	amount, err := models.ParseAmount(match[4])
	if err != nil || !amount.IsPositive() {
		return models.TransactionRecord{}, false
	}

	cleaned := p.cleaner.Clean(match[3])
	if len(cleaned) < 3 {
		return models.TransactionRecord{}, false
	}

	date := p.stampYear(match[1], cycle)

	return models.TransactionRecord{
		Date:     date,
		Merchant: cleaned,
		Amount:   amount,
	}, true
}

func (p *Parser) stampYear(monthDay string, cycle *models.DateRange) string {
	parts := strings.SplitN(monthDay, "/", 2)
	month := 0
	for _, r := range parts[0] {
		month = month*10 + int(r-'0')
	}

	if cycle != nil {
		year := dateutils.CycleYear(month, cycle.StartMonth, cycle.StartYear, cycle.EndYear)
		return pad2(parts[0]) + "/" + pad2(parts[1]) + "/" + itoa4(year)
	}

	converted, err := dateutils.ConvertDate(monthDay, p.yearCutoff, p.now)
	if err != nil {
		return monthDay
	}
	return converted
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func containsAnyUpper(line string, words []string) bool {
	upper := strings.ToUpper(line)
	for _, w := range words {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

func isStreetLine(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	upper := strings.ToUpper(line)
	for _, kw := range streetKeywords {
		for _, word := range strings.Fields(upper) {
			if strings.TrimRight(word, ".,") == kw {
				return true
			}
		}
	}
	return false
}
