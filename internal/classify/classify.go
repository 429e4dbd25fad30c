// Package classify decides what role a statement line can play before the
// issuer parsers attempt extraction. The decision tables are data, shared by
// both issuers with issuer-specific header rules layered on top.
package classify

import (
	"strings"
	"unicode"
)

// Kind is the coarse classification of one trimmed statement line.
type Kind int

const (
	// KindNoise covers blank lines, column headers, and brand boilerplate.
	KindNoise Kind = iota
	// KindContinuation marks a multi-page section continuation header. It is
	// skipped like noise but must never reset the current cardholder, and for
	// Chase it anchors the section-name lookback.
	KindContinuation
	// KindCandidate lines proceed to name-declaration and transaction matching.
	KindCandidate
)

// continuationMarkers are shared between issuers. A match means the section
// continues: the active cardholder carries across.
var continuationMarkers = []string{
	"DETAIL CONTINUED",
	"CONTINUED ON NEXT PAGE",
	"CONTINUED ON REVERSE",
	"ACCOUNT ACTIVITY (CONTINUED)",
	"ACCOUNT ACTIVITY CONTINUED",
	"TRANSACTIONS THIS CYCLE",
	"INCLUDING PAYMENTS RECEIVED",
	"CONTINUED FROM PREVIOUS PAGE",
}

// nameVetoMarkers extend the continuation set when a line is vetted as a
// standalone cardholder name. Summary labels like "TOTAL AMOUNT DUE" pass the
// name shape checks, but a transaction line such as "01/15 PARAMOUNT PICTURES
// 25.00" must still classify as a candidate, so these markers never apply to
// the line classifier itself.
var nameVetoMarkers = []string{
	"AMOUNT",
}

// Rules holds the issuer-specific header tables.
type Rules struct {
	// MinLineLength rejects fragments shorter than this many characters.
	MinLineLength int
	// HeaderContains groups: a line is a header when every keyword in any
	// one group appears in it.
	HeaderContains [][]string
	// HeaderPrefixes: a line is a header when it starts with any of these.
	HeaderPrefixes []string
}

// AmexRules returns the header tables for American Express statements.
func AmexRules() Rules {
	return Rules{
		MinLineLength: 5,
		HeaderContains: [][]string{
			{"Merchant Name", "$ Amount"},
			{"Date of Transaction"},
		},
		HeaderPrefixes: []string{
			"Amazon Business Prime Card",
			"AMERICAN EXPRESS",
			"Page ",
			"Customer Care",
		},
	}
}

// ChaseRules returns the header tables for Chase statements.
func ChaseRules() Rules {
	return Rules{
		MinLineLength: 5,
		HeaderContains: [][]string{
			{"Date of", "Transaction"},
			{"Merchant Name"},
			{"ACCOUNT ACTIVITY"},
		},
		HeaderPrefixes: []string{
			"CHASE",
			"Page",
			"Customer Service",
		},
	}
}

// IsContinuationHeader reports whether the line is a section continuation
// marker. The check is case-insensitive on the marker table, plus the
// "ACCOUNT ENDING nnnn" form that appears in continuation sections.
func IsContinuationHeader(line string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))

	for _, marker := range continuationMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}

	if strings.Contains(upper, "ACCOUNT ENDING") &&
		len(strings.Fields(line)) >= 3 && containsDigit(line) {
		return true
	}

	return false
}

// IsNameVeto reports whether a standalone-name candidate is really a
// continuation header or a summary label and must not switch attribution.
func IsNameVeto(line string) bool {
	if IsContinuationHeader(line) {
		return true
	}
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, marker := range nameVetoMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// Classify assigns the coarse kind for one trimmed line under the given rules.
func (r Rules) Classify(line string) Kind {
	if len(line) < r.MinLineLength {
		return KindNoise
	}

	for _, group := range r.HeaderContains {
		if containsAll(line, group) {
			return KindNoise
		}
	}
	for _, prefix := range r.HeaderPrefixes {
		if strings.HasPrefix(line, prefix) {
			return KindNoise
		}
	}

	if IsContinuationHeader(line) {
		return KindContinuation
	}

	return KindCandidate
}

func containsAll(line string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(line, kw) {
			return false
		}
	}
	return true
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
