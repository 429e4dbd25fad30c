package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
}

func TestResolveTwoDigitYear(t *testing.T) {
	tests := []struct {
		name     string
		yy       int
		cutoff   int
		expected int
	}{
		{"below cutoff resolves to 20xx", 24, 50, 2024},
		{"zero resolves to 2000", 0, 50, 2000},
		{"at cutoff resolves to 19xx", 50, 50, 1950},
		{"above cutoff resolves to 19xx", 99, 50, 1999},
		{"custom cutoff", 30, 30, 1930},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveTwoDigitYear(tc.yy, tc.cutoff))
		})
	}
}

func TestConvertDate(t *testing.T) {
	tests := []struct {
		name     string
		dateStr  string
		expected string
		wantErr  bool
	}{
		{"bare month/day takes clock year", "01/15", "01/15/2026", false},
		{"two-digit year below cutoff", "01/15/24", "01/15/2024", false},
		{"two-digit year at cutoff", "01/15/50", "01/15/1950", false},
		{"four-digit year passes through", "01/15/2024", "01/15/2024", false},
		{"garbage year", "01/15/xx", "", true},
		{"not a date", "hello", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ConvertDate(tc.dateStr, 50, fixedClock)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCycleYear(t *testing.T) {
	// Cycle 12/24/24 - 01/23/25: December stays in 2024, January moves to 2025.
	assert.Equal(t, 2024, CycleYear(12, 12, 2024, 2025))
	assert.Equal(t, 2025, CycleYear(1, 12, 2024, 2025))

	// Single-year cycle assigns that year regardless of month.
	assert.Equal(t, 2024, CycleYear(3, 2, 2024, 2024))
	assert.Equal(t, 2024, CycleYear(2, 2, 2024, 2024))
}

func TestParseAbsolute(t *testing.T) {
	d, err := ParseAbsolute("01/15/2024")
	assert.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseAbsolute("15.01.2024")
	assert.Error(t, err)
}
