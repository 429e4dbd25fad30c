package models

import "time"

// StatementType identifies the issuer of a statement document.
type StatementType string

const (
	StatementTypeAmex    StatementType = "amex"
	StatementTypeChase   StatementType = "chase"
	StatementTypeUnknown StatementType = "unknown"
)

// DateRange is the billing cycle printed on a Chase statement. It anchors
// two-digit transaction dates to an absolute year, including cycles that
// straddle a year boundary.
type DateRange struct {
	Start      time.Time
	End        time.Time
	StartMonth int
	EndMonth   int
	StartYear  int
	EndYear    int
}

// SpansYearBoundary reports whether the cycle crosses from one year into the next.
func (r DateRange) SpansYearBoundary() bool {
	return r.StartYear != r.EndYear
}

// StatementDocument holds the per-document parse context. It is created when
// a PDF is opened and discarded once its records and validation result have
// been handed off; nothing in it is shared between documents.
type StatementDocument struct {
	Path  string
	Type  StatementType
	Pages []string

	// DateRange and PrimaryAccountHolder are Chase-only and stay zero-valued
	// for AmEx documents.
	DateRange            *DateRange
	PrimaryAccountHolder string
}

// FullText joins all page texts, one page per line block.
func (d *StatementDocument) FullText() string {
	var sb []byte
	for _, p := range d.Pages {
		sb = append(sb, p...)
		sb = append(sb, '\n')
	}
	return string(sb)
}
