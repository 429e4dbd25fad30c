// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one extracted statement charge, attributed to a
// cardholder. Amount is always positive: payments and credits are rejected
// during extraction, never retained as negative records.
type TransactionRecord struct {
	Name     string          `csv:"Name"`     // Cardholder the charge is attributed to
	Date     string          `csv:"Date"`     // Absolute date, MM/DD/YYYY
	Merchant string          `csv:"Merchant"` // Cleaned merchant description
	Amount   decimal.Decimal `csv:"Amount"`   // Charge amount, > 0
}

// Signature returns the dedup/validation key for a record: date, the first
// 20 characters of the merchant, and the amount with two decimals.
func (r TransactionRecord) Signature() string {
	merchant := r.Merchant
	if len(merchant) > 20 {
		merchant = merchant[:20]
	}
	return r.Date + "|" + merchant + "|" + r.Amount.StringFixed(2)
}

// ParseAmount parses a statement amount string to decimal.Decimal,
// stripping currency symbols and thousands separators.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, ",", "")
	return decimal.NewFromString(amount)
}
