package validator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jramos/stmt2sheet/internal/config"
	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

func testValidator() *Validator {
	cfg := config.Default()
	clock := func() time.Time {
		return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	}
	return NewWithClock(cfg, &logging.MockLogger{}, clock)
}

func amexDoc() *models.StatementDocument {
	return &models.StatementDocument{
		Path: "amex_jan.pdf",
		Type: models.StatementTypeAmex,
		Pages: []string{
			"AMERICAN EXPRESS\n" +
				"LUIS RODRIGUEZ\n" +
				"01/15 STARBUCKS #123 CA 4.50\n" +
				"01/16 BLUE BOTTLE COFFEE 31.75\n" +
				"01/17 SHELL OIL 57442 52.00\n" +
				"New Charges $88.25\n",
		},
	}
}

func record(date, merchantName, amount string) models.TransactionRecord {
	return models.TransactionRecord{
		Name:     "LUIS RODRIGUEZ",
		Date:     date,
		Merchant: merchantName,
		Amount:   decimal.RequireFromString(amount),
	}
}

func TestValidateCompleteExtraction(t *testing.T) {
	v := testValidator()
	records := []models.TransactionRecord{
		record("01/15/2026", "STARBUCKS", "4.50"),
		record("01/16/2026", "BLUE BOTTLE COFFEE", "31.75"),
		record("01/17/2026", "SHELL OIL", "52.00"),
	}

	result := v.Validate(amexDoc(), records)

	assert.Equal(t, 3, result.ExtractedCount)
	assert.Equal(t, 3, result.EstimatedTotal)
	assert.Nil(t, result.AmountDiscrepancy)
	assert.Empty(t, result.PotentialMissed)
	assert.Equal(t, 100, result.ConfidenceScore)
	assert.Equal(t, "excellent", v.Band(result.ConfidenceScore))
}

func TestValidatePartialExtraction(t *testing.T) {
	v := testValidator()
	records := []models.TransactionRecord{
		record("01/15/2026", "STARBUCKS", "4.50"),
	}

	result := v.Validate(amexDoc(), records)

	assert.Equal(t, 1, result.ExtractedCount)
	assert.Equal(t, 3, result.EstimatedTotal)
	require.Len(t, result.PotentialMissed, 2)
	assert.Equal(t, "01/16/2026", result.PotentialMissed[0].Date)
	assert.Equal(t, "BLUE BOTTLE COFFEE", result.PotentialMissed[0].Merchant)
	assert.Equal(t, "31.75", result.PotentialMissed[0].Amount)

	require.NotNil(t, result.AmountDiscrepancy)
	assert.Equal(t, "new_charges", result.AmountDiscrepancy.TotalType)
	assert.True(t, result.AmountDiscrepancy.Difference.Equal(decimal.RequireFromString("83.75")))

	assert.Less(t, result.ConfidenceScore, 85)
	assert.Equal(t, "needs review", v.Band(result.ConfidenceScore))
}

func TestValidateDiscrepancyOnly(t *testing.T) {
	v := testValidator()
	doc := &models.StatementDocument{
		Path: "amex_jan.pdf",
		Type: models.StatementTypeAmex,
		Pages: []string{
			"01/15 STARBUCKS #123 CA 4.50\n" +
				"New Charges $104.50\n",
		},
	}
	records := []models.TransactionRecord{record("01/15/2026", "STARBUCKS", "4.50")}

	result := v.Validate(doc, records)

	assert.Empty(t, result.PotentialMissed)
	require.NotNil(t, result.AmountDiscrepancy)
	assert.True(t, result.AmountDiscrepancy.StatementTotal.Equal(decimal.RequireFromString("104.50")))
	// The 100.00 difference dwarfs the 4.50 extracted total, so the
	// discrepancy penalty hits the configured 25-point cap.
	assert.Equal(t, 75, result.ConfidenceScore)
	assert.Equal(t, "needs review", v.Band(result.ConfidenceScore))
}

func TestScoreWeightsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Validation.DiscrepancyPenaltyWeight = 0
	clock := func() time.Time {
		return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	}
	v := NewWithClock(cfg, &logging.MockLogger{}, clock)

	doc := &models.StatementDocument{
		Path: "amex_jan.pdf",
		Type: models.StatementTypeAmex,
		Pages: []string{
			"01/15 STARBUCKS #123 CA 4.50\n" +
				"New Charges $104.50\n",
		},
	}
	records := []models.TransactionRecord{record("01/15/2026", "STARBUCKS", "4.50")}

	result := v.Validate(doc, records)

	require.NotNil(t, result.AmountDiscrepancy)
	assert.Equal(t, 100, result.ConfidenceScore)
}

func TestValidateLaterTotalDiscrepancy(t *testing.T) {
	v := testValidator()
	doc := &models.StatementDocument{
		Path: "amex_jan.pdf",
		Type: models.StatementTypeAmex,
		Pages: []string{
			"01/15 STARBUCKS #123 CA 4.50\n" +
				"New Charges $4.50\n" +
				"Purchases $999.99\n",
		},
	}
	records := []models.TransactionRecord{record("01/15/2026", "STARBUCKS", "4.50")}

	result := v.Validate(doc, records)

	// The New Charges total agrees, but the Purchases total does not and
	// must still be reported.
	require.NotNil(t, result.AmountDiscrepancy)
	assert.Equal(t, "purchases", result.AmountDiscrepancy.TotalType)
	assert.True(t, result.AmountDiscrepancy.StatementTotal.Equal(decimal.RequireFromString("999.99")))
}

func TestValidateFindsMissedUncommaedThousands(t *testing.T) {
	v := testValidator()
	doc := &models.StatementDocument{
		Path: "chase_jan.pdf",
		Type: models.StatementTypeChase,
		DateRange: &models.DateRange{
			StartMonth: 12, EndMonth: 1, StartYear: 2024, EndYear: 2025,
		},
		Pages: []string{
			"12/28 SMALL SHOP 12.34\n" +
				"12/28 MEGAMART SUPERSTORE 1234.56\n",
		},
	}
	records := []models.TransactionRecord{record("12/28/2024", "SMALL SHOP", "12.34")}

	result := v.Validate(doc, records)

	assert.Equal(t, 2, result.EstimatedTotal)
	require.Len(t, result.PotentialMissed, 1)
	assert.Equal(t, "MEGAMART SUPERSTORE", result.PotentialMissed[0].Merchant)
	assert.Equal(t, "1234.56", result.PotentialMissed[0].Amount)
}

func TestValidateChaseCycleYearSignatures(t *testing.T) {
	v := testValidator()
	doc := &models.StatementDocument{
		Path: "chase_jan.pdf",
		Type: models.StatementTypeChase,
		DateRange: &models.DateRange{
			StartMonth: 12, EndMonth: 1, StartYear: 2024, EndYear: 2025,
		},
		Pages: []string{
			"12/28 SHELL OIL 57442 52.00\n" +
				"01/05 STARBUCKS #123 4.50\n",
		},
	}
	records := []models.TransactionRecord{
		record("12/28/2024", "SHELL OIL", "52.00"),
		record("01/05/2025", "STARBUCKS", "4.50"),
	}

	result := v.Validate(doc, records)

	assert.Empty(t, result.PotentialMissed)
	assert.Equal(t, 2, result.EstimatedTotal)
	assert.Equal(t, 100, result.ConfidenceScore)
}

func TestValidateEmptyDocumentScoresFull(t *testing.T) {
	v := testValidator()
	doc := &models.StatementDocument{
		Path:  "empty.pdf",
		Type:  models.StatementTypeAmex,
		Pages: []string{"AMERICAN EXPRESS\nNo activity this period\n"},
	}

	result := v.Validate(doc, nil)

	assert.Equal(t, 0, result.EstimatedTotal)
	assert.Equal(t, 100, result.ConfidenceScore)
}

func TestValidateIsIdempotent(t *testing.T) {
	v := testValidator()
	records := []models.TransactionRecord{record("01/15/2026", "STARBUCKS", "4.50")}

	first := v.Validate(amexDoc(), records)
	second := v.Validate(amexDoc(), records)

	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.Equal(t, first.EstimatedTotal, second.EstimatedTotal)
	assert.Equal(t, len(first.PotentialMissed), len(second.PotentialMissed))
}

func TestBand(t *testing.T) {
	v := testValidator()

	assert.Equal(t, "excellent", v.Band(95))
	assert.Equal(t, "excellent", v.Band(100))
	assert.Equal(t, "good", v.Band(94))
	assert.Equal(t, "good", v.Band(85))
	assert.Equal(t, "needs review", v.Band(84))
	assert.Equal(t, "needs review", v.Band(0))
}
