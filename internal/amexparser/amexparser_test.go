package amexparser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jramos/stmt2sheet/internal/attribution"
	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

func testParser() *Parser {
	cfg := config.Default()
	clock := func() time.Time {
		return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	}
	return NewWithClock(cfg, &logging.MockLogger{}, clock)
}

func TestParseTransactionLine(t *testing.T) {
	p := testParser()

	tests := []struct {
		name         string
		line         string
		wantOk       bool
		wantDate     string
		wantMerchant string
		wantAmount   string
	}{
		{
			name:         "bare date takes clock year",
			line:         "01/15 STARBUCKS #123 CA 415-555-0100 4.50",
			wantOk:       true,
			wantDate:     "01/15/2026",
			wantMerchant: "STARBUCKS",
			wantAmount:   "4.50",
		},
		{
			name:         "two-digit year with dollar sign",
			line:         "03/22/24 WHOLE FOODS MARKET SEATTLE WA $1,234.56",
			wantOk:       true,
			wantDate:     "03/22/2024",
			wantMerchant: "WHOLE FOODS MARKET",
			wantAmount:   "1234.56",
		},
		{
			name:   "negative amount is a payment",
			line:   "01/15 ONLINE PAYMENT RECEIVED -$250.00",
			wantOk: false,
		},
		{
			name:   "no date prefix",
			line:   "STARBUCKS #123 4.50",
			wantOk: false,
		},
		{
			name:   "no trailing amount",
			line:   "01/15 STARBUCKS #123 SEATTLE",
			wantOk: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record, ok := p.parseTransactionLine(tc.line)
			assert.Equal(t, tc.wantOk, ok)
			if !tc.wantOk {
				return
			}
			assert.Equal(t, tc.wantDate, record.Date)
			assert.Equal(t, tc.wantMerchant, record.Merchant)
			assert.True(t, record.Amount.Equal(decimal.RequireFromString(tc.wantAmount)),
				"amount %s != %s", record.Amount, tc.wantAmount)
		})
	}
}

func TestExtractName(t *testing.T) {
	p := testParser()

	tests := []struct {
		name     string
		line     string
		wantName string
		wantOk   bool
	}{
		{"card ending declaration", "LUIS RODRIGUEZ Card Ending 1-23456", "LUIS RODRIGUEZ", true},
		{"standalone name", "MARIA ELENA GARCIA", "MARIA ELENA GARCIA", true},
		{"name with account context", "JOHN SMITH CARD ENDING 4421", "JOHN SMITH", true},
		{"continuation context rejected", "DETAIL CONTINUED LUIS RODRIGUEZ", "", false},
		{"boilerplate rejected", "ACCOUNT SUMMARY", "", false},
		{"merchant chain rejected", "HOME DEPOT", "", false},
		{"lowercase rejected", "Maria Garcia", "", false},
		{"transaction line rejected", "01/15 STARBUCKS 4.50", "", false},
		{"amount header rejected", "TOTAL AMOUNT", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := p.ExtractName(tc.line)
			assert.Equal(t, tc.wantOk, ok)
			assert.Equal(t, tc.wantName, got)
		})
	}
}

func TestParsePageCarriesCardholderAcrossPages(t *testing.T) {
	p := testParser()
	state := attribution.NewState("")

	page1 := "LUIS RODRIGUEZ Card Ending 1-23456\n" +
		"01/15 STARBUCKS #123 CA 415-555-0100 4.50\n" +
		"01/16 TRADER JOES #099 SEATTLE WA 31.75\n"
	page2 := "DETAIL CONTINUED\n" +
		"01/17 SHELL OIL 57442 PORTLAND OR 52.00\n"
	page3 := "MARIA GARCIA Card Ending 7-65432\n" +
		"01/18 BLUE BOTTLE COFFEE 6.25\n"

	records := p.ParsePage(page1, 1, state)
	records = append(records, p.ParsePage(page2, 2, state)...)
	records = append(records, p.ParsePage(page3, 3, state)...)

	require.Len(t, records, 4)
	assert.Equal(t, "LUIS RODRIGUEZ", records[0].Name)
	assert.Equal(t, "LUIS RODRIGUEZ", records[1].Name)
	// The continuation header must not reset attribution.
	assert.Equal(t, "LUIS RODRIGUEZ", records[2].Name)
	assert.Equal(t, "MARIA GARCIA", records[3].Name)
}

func TestParsePageMerchantContainingAmountWord(t *testing.T) {
	p := testParser()
	state := attribution.NewState("")

	page := "01/15 PARAMOUNT PICTURES 25.00\n" +
		"01/15 STARBUCKS #123 4.50\n"

	records := p.ParsePage(page, 1, state)
	require.Len(t, records, 2)
	assert.Equal(t, "PARAMOUNT PICTURES", records[0].Merchant)
	assert.Equal(t, "STARBUCKS", records[1].Merchant)
}

func TestParseDocumentFallbackWhenNoDeclaration(t *testing.T) {
	p := testParser()
	doc := &models.StatementDocument{
		Type:  models.StatementTypeAmex,
		Pages: []string{"01/15 STARBUCKS #123 CA 4.50\n"},
	}

	records := p.ParseDocument(doc)
	require.Len(t, records, 1)
	assert.Equal(t, "ACCOUNT HOLDER", records[0].Name)
	assert.NotEmpty(t, records[0].Name)
}

func TestRoundTrip(t *testing.T) {
	p := testParser()
	doc := &models.StatementDocument{
		Type: models.StatementTypeAmex,
		Pages: []string{
			"LUIS RODRIGUEZ\n01/15 STARBUCKS #123 CA 415-555-0100 4.50\n",
		},
	}

	records := p.ParseDocument(doc)
	require.Len(t, records, 1)
	assert.Equal(t, "LUIS RODRIGUEZ", records[0].Name)
	assert.Equal(t, "01/15/2026", records[0].Date)
	assert.Equal(t, "STARBUCKS", records[0].Merchant)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("4.50")))
}
