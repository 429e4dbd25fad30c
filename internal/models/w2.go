package models

import "github.com/shopspring/decimal"

// W2Record is one employee's W-2 form, extracted from an SSN-anchored form
// block. Unlike statement records it carries no attribution state: the
// employee identity is printed inside the form itself.
type W2Record struct {
	Employee   string          `csv:"Employee"`
	SSN        string          `csv:"SSN"`
	Employer   string          `csv:"Employer"`
	Wages      decimal.Decimal `csv:"Wages"`      // Box 1
	FederalTax decimal.Decimal `csv:"FederalTax"` // Box 2
	StateTax   decimal.Decimal `csv:"StateTax"`   // Box 17
}
