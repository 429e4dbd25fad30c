// Package amexparser extracts transactions from American Express statement
// text. Cardholder identity is carried forward line by line across the whole
// document: a validated name declaration switches the active holder, and every
// transaction between declarations is stamped with whoever is active.
package amexparser

import (
	"regexp"
	"strings"
	"time"
	"unicode"

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
	datePattern   = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:/\d{2,4})?)`)
	amountPattern = regexp.MustCompile(`(-?\$?[\d,]+\.\d{2})$`)
)

// nameSkipPatterns reject a line from name consideration outright. These are
// substrings that never occur inside a printed cardholder name but do occur
// in boilerplate that otherwise resembles one.
var nameSkipPatterns = []string{
	"Amount", "$", "Date", "Merchant", "Transaction", "Account", "Page",
	"Statement", "Balance", "Payment", "Interest", "Fee", "Charge",
	"Credit", "Debit", "Purchase", "Cash", "Advance", "Transfer",
	"www.", "http", ".com", "@", "#", "*", "&", "%",
	"Detail", "Continued", "Including", "Payments", "Received",
	"/", "-", "(", ")", "[", "]", "{", "}", "|", "\\",
}

// accountKeywords mark the remainder of a "name + account info" line.
var accountKeywords = []string{"CARD", "ACCOUNT", "ENDING", "AMOUNT"}

// Parser parses American Express statement pages.
type Parser struct {
	log        logging.Logger
	rules      classify.Rules
	names      *nameval.Validator
	cleaner    *merchant.Cleaner
	fallback   string
	yearCutoff int
	now        dateutils.Clock
}

// New creates an AmEx parser wired from the configured rule tables.
func New(cfg *config.Config, logger logging.Logger) *Parser {
	return NewWithClock(cfg, logger, time.Now)
}

// NewWithClock is New with an injected clock for year stamping of bare MM/DD
// dates. Tests use a fixed instant.
func NewWithClock(cfg *config.Config, logger logging.Logger, now dateutils.Clock) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{
		log:        logger.WithField(logging.FieldParser, "amex"),
		rules:      classify.AmexRules(),
		names:      nameval.New(cfg.Names.Particles, cfg.Names.BusinessTerms, cfg.Names.AmexFalsePositives, 4),
		cleaner:    merchant.NewCleaner(cfg.Merchants.Cities),
		fallback:   cfg.Names.FallbackAccountHolder,
		yearCutoff: cfg.Dates.TwoDigitYearCutoff,
		now:        now,
	}
}

// ParseDocument parses every page of the document with a fresh attribution
// state and returns the extracted records. Pages that yield nothing are
// simply skipped; nothing aborts the document.
func (p *Parser) ParseDocument(doc *models.StatementDocument) []models.TransactionRecord {
	state := attribution.NewState("")
	var records []models.TransactionRecord
	for i, page := range doc.Pages {
		records = append(records, p.ParsePage(page, i+1, state)...)
	}
	return records
}

// ParsePage parses one page of statement text, threading the document's
// attribution state through it. The state is mutated in place so the active
// cardholder survives the page boundary.
func (p *Parser) ParsePage(pageText string, pageNum int, state *attribution.State) []models.TransactionRecord {
	var records []models.TransactionRecord
	lines := strings.Split(pageText, "\n")

	log := p.log.WithField(logging.FieldPage, pageNum)
	log.Debug("Parsing page",
		logging.Field{Key: logging.FieldCount, Value: len(lines)},
		logging.Field{Key: logging.FieldCardholder, Value: state.Current()})

	for i, line := range lines {
		line = strings.TrimSpace(line)

		switch p.rules.Classify(line) {
		case classify.KindNoise:
			continue
		case classify.KindContinuation:
			// Section continues; the active cardholder is preserved.
			log.Debug("Continuation header",
				logging.Field{Key: logging.FieldLine, Value: i + 1},
				logging.Field{Key: logging.FieldCardholder, Value: state.Current()})
			continue
		}

		if name, ok := p.ExtractName(line); ok {
			if state.Switch(name) {
				log.Debug("Cardholder changed",
					logging.Field{Key: logging.FieldLine, Value: i + 1},
					logging.Field{Key: logging.FieldCardholder, Value: name})
			}
			continue
		}

		if record, ok := p.parseTransactionLine(line); ok {
			record.Name = state.CurrentOr(p.fallback)
			records = append(records, record)
			log.Debug("Transaction extracted",
				logging.Field{Key: logging.FieldLine, Value: i + 1},
				logging.Field{Key: logging.FieldCardholder, Value: record.Name})
		}
	}

	return records
}

// ExtractName checks a line against the AmEx name-declaration patterns, in
// priority order, and validates the candidate. It returns false when the line
// declares no acceptable name.
func (p *Parser) ExtractName(line string) (string, bool) {
	line = strings.TrimSpace(line)

	if classify.IsNameVeto(line) {
		return "", false
	}

	// Pattern 1: "NAME Card Ending X-XXXXX". Checked before the skip table
	// because these lines legitimately contain boilerplate words.
	if strings.Contains(line, "Card Ending") {
		if !inContinuationContext(line) {
			candidate := strings.TrimSpace(strings.SplitN(line, "Card Ending", 2)[0])
			if p.names.IsValidName(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	for _, pattern := range nameSkipPatterns {
		if strings.Contains(line, pattern) {
			return "", false
		}
	}

	words := strings.Fields(line)

	// Pattern 2: a standalone upper-case name line.
	if len(words) >= 2 && len(words) <= 3 &&
		len(line) <= 30 && !containsDigit(line) && isAllUpper(line) {
		if inContinuationContext(line) {
			return "", false
		}
		if p.names.IsValidName(line) {
			return line, true
		}
	}

	// Pattern 3: name followed by account context ("JOHN DOE CARD ...").
	if len(words) >= 3 && !inContinuationContext(line) {
		candidate := strings.Join(words[:2], " ")
		if p.names.IsValidName(candidate) && containsAccountKeyword(words[2:]) {
			return candidate, true
		}
		if len(words) >= 4 {
			candidate = strings.Join(words[:3], " ")
			if p.names.IsValidName(candidate) && containsAccountKeyword(words[3:]) {
				return candidate, true
			}
		}
	}

	return "", false
}

// parseTransactionLine matches one AmEx transaction line: a leading date
// token, merchant text, and a trailing amount. Payments and credits (amount
// <= 0) yield no record.
func (p *Parser) parseTransactionLine(line string) (models.TransactionRecord, bool) {
	dateMatch := datePattern.FindStringSubmatch(line)
	if dateMatch == nil {
		return models.TransactionRecord{}, false
	}
	remaining := strings.TrimSpace(line[len(dateMatch[1]):])

	loc := amountPattern.FindStringIndex(remaining)
	if loc == nil {
		return models.TransactionRecord{}, false
	}
	amountStr := remaining[loc[0]:loc[1]]
	middle := strings.TrimSpace(remaining[:loc[0]])

	amount, err := models.ParseAmount(amountStr)
	if err != nil || !amount.IsPositive() {
		return models.TransactionRecord{}, false
	}

	merchantName := p.cleaner.Clean(middle)
	if len(merchantName) < 3 {
		return models.TransactionRecord{}, false
	}

	fullDate, err := dateutils.ConvertDate(dateMatch[1], p.yearCutoff, p.now)
	if err != nil {
		return models.TransactionRecord{}, false
	}

	return models.TransactionRecord{
		Date:     fullDate,
		Merchant: merchantName,
		Amount:   amount,
	}, true
}

func inContinuationContext(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "CONTINUED") ||
		strings.Contains(upper, "DETAIL") ||
		strings.Contains(upper, "INCLUDING")
}

func containsAccountKeyword(words []string) bool {
	remainder := strings.ToUpper(strings.Join(words, " "))
	for _, kw := range accountKeywords {
		if strings.Contains(remainder, kw) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}
