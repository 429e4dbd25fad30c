package models

import "github.com/shopspring/decimal"

// AmountDiscrepancy records a mismatch between the sum of extracted amounts
// and a summary total printed on the statement.
type AmountDiscrepancy struct {
	ExtractedTotal decimal.Decimal
	StatementTotal decimal.Decimal
	TotalType      string
	Difference     decimal.Decimal
}

// MissedTransaction is a raw-text line that looks transaction-shaped but whose
// signature is absent from the extracted record set.
type MissedTransaction struct {
	Page     int
	Line     int
	Text     string
	Date     string
	Merchant string
	Amount   string
}

// ValidationResult scores one document's extraction completeness.
type ValidationResult struct {
	File              string
	StatementType     StatementType
	ExtractedCount    int
	EstimatedTotal    int
	AmountDiscrepancy *AmountDiscrepancy
	PotentialMissed   []MissedTransaction
	ConfidenceScore   int
}
