package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jramos/stmt2sheet/internal/logging"
	"jramos/stmt2sheet/internal/models"
)

func record(name, date, merchantName, amount string) models.TransactionRecord {
	return models.TransactionRecord{
		Name:     name,
		Date:     date,
		Merchant: merchantName,
		Amount:   decimal.RequireFromString(amount),
	}
}

func TestDedupe(t *testing.T) {
	records := []models.TransactionRecord{
		record("LUIS RODRIGUEZ", "01/15/2025", "STARBUCKS", "4.50"),
		record("LUIS RODRIGUEZ", "01/15/2025", "STARBUCKS", "4.50"),
		record("LUIS RODRIGUEZ", "01/15/2025", "STARBUCKS", "9.00"),
		record("MARIA GARCIA", "01/15/2025", "STARBUCKS", "4.50"),
	}

	deduped := Dedupe(records)

	require.Len(t, deduped, 3)
	assert.Equal(t, "LUIS RODRIGUEZ", deduped[0].Name)
	assert.Equal(t, "MARIA GARCIA", deduped[2].Name)
}

func TestExcelWriterWriteTransactions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	w := NewExcelWriter(&logging.MockLogger{})
	records := []models.TransactionRecord{
		record("LUIS RODRIGUEZ", "01/15/2025", "STARBUCKS", "4.50"),
		record("LUIS RODRIGUEZ", "01/15/2025", "STARBUCKS", "4.50"),
		record("MARIA GARCIA", "01/16/2025", "BLUE BOTTLE COFFEE", "6.25"),
	}
	require.NoError(t, w.WriteTransactions(path, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	// Header plus two rows: the duplicate must not survive.
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Date", "Merchant", "Amount"}, rows[0])
	assert.Equal(t, "STARBUCKS", rows[1][2])
	assert.Equal(t, "MARIA GARCIA", rows[2][0])
}

func TestCombinedPath(t *testing.T) {
	w := NewExcelWriter(&logging.MockLogger{})

	amex := w.CombinedPath("Excel", models.StatementTypeAmex)
	assert.True(t, strings.HasPrefix(filepath.Base(amex), "AmEx_Combined_"))
	assert.True(t, strings.HasSuffix(amex, ".xlsx"))

	chase := w.CombinedPath("Excel", models.StatementTypeChase)
	assert.True(t, strings.HasPrefix(filepath.Base(chase), "Chase_Combined_"))
}

func TestCSVWriterWriteTransactions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w := NewCSVWriter(&logging.MockLogger{})
	records := []models.TransactionRecord{
		record("LUIS RODRIGUEZ", "01/15/2025", "STARBUCKS", "4.50"),
	}
	require.NoError(t, w.WriteTransactions(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "LUIS RODRIGUEZ")
	assert.Contains(t, content, "STARBUCKS")
	assert.Contains(t, content, "4.5")
}

func TestReportRender(t *testing.T) {
	band := func(score int) string {
		if score >= 95 {
			return "excellent"
		}
		if score >= 85 {
			return "good"
		}
		return "needs review"
	}
	w := NewReportWriter(&logging.MockLogger{}, band)

	results := []*models.ValidationResult{
		{
			File:            "amex_jan.pdf",
			StatementType:   models.StatementTypeAmex,
			ExtractedCount:  10,
			EstimatedTotal:  10,
			ConfidenceScore: 100,
		},
		{
			File:           "chase_jan.pdf",
			StatementType:  models.StatementTypeChase,
			ExtractedCount: 2,
			EstimatedTotal: 9,
			PotentialMissed: []models.MissedTransaction{
				{Page: 1, Line: 4, Text: "01/05 STARBUCKS 4.50"},
				{Page: 1, Line: 5, Text: "01/06 SHELL OIL 52.00"},
				{Page: 1, Line: 6, Text: "01/07 TRADER JOES 31.75"},
				{Page: 2, Line: 2, Text: "01/08 BLUE BOTTLE 6.25"},
				{Page: 2, Line: 3, Text: "01/09 WHOLE FOODS 88.21"},
				{Page: 2, Line: 4, Text: "01/10 SAFEWAY 42.00"},
				{Page: 2, Line: 5, Text: "01/11 COSTCO 310.00"},
			},
			ConfidenceScore: 30,
		},
	}

	text := w.Render(results)

	assert.Contains(t, text, "amex_jan.pdf")
	assert.Contains(t, text, "Confidence: 100/100 (excellent)")
	assert.Contains(t, text, "Confidence: 30/100 (needs review)")
	assert.Contains(t, text, "Potential missed lines: 7")
	assert.Contains(t, text, "... and 2 more")
	assert.Contains(t, text, "Documents processed: 2, needing review: 1")
	// Only five sample lines are printed.
	assert.NotContains(t, text, "01/10 SAFEWAY")
}
