// Package dateutils provides the date resolution rules for statement parsing:
// two-digit-year expansion and billing-cycle-anchored year assignment.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayoutUS is the absolute date form used in all output records.
const DateLayoutUS = "01/02/2006"

// Clock returns the current time; tests substitute a fixed instant.
type Clock func() time.Time

// ResolveTwoDigitYear expands a two-digit year using the configured cutoff:
// years >= cutoff resolve to 19xx, years below it to 20xx.
func ResolveTwoDigitYear(yy, cutoff int) int {
	if yy >= cutoff {
		return 1900 + yy
	}
	return 2000 + yy
}

// ConvertDate resolves a statement date token (MM/DD, MM/DD/YY or MM/DD/YYYY)
// to the absolute MM/DD/YYYY form. A bare MM/DD is stamped with the current
// calendar year from the clock.
func ConvertDate(dateStr string, cutoff int, now Clock) (string, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), "/")
	switch len(parts) {
	case 3:
		month, day, year := parts[0], parts[1], parts[2]
		if len(year) == 2 {
			yy, err := strconv.Atoi(year)
			if err != nil {
				return "", fmt.Errorf("invalid two-digit year in %q", dateStr)
			}
			return fmt.Sprintf("%s/%s/%d", month, day, ResolveTwoDigitYear(yy, cutoff)), nil
		}
		return dateStr, nil
	case 2:
		return fmt.Sprintf("%s/%d", dateStr, now().Year()), nil
	default:
		return "", fmt.Errorf("unrecognized date token %q", dateStr)
	}
}

// ParseAbsolute parses an MM/DD/YYYY string produced by ConvertDate.
func ParseAbsolute(dateStr string) (time.Time, error) {
	t, err := time.Parse("1/2/2006", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", dateStr, err)
	}
	return t, nil
}

// CycleYear resolves the year for a Chase transaction month against a billing
// cycle. When the cycle straddles a year boundary, months at or after the
// cycle's start month keep the start year and earlier months take the end
// year. A single-year cycle assigns that year to everything.
func CycleYear(month, startMonth, startYear, endYear int) int {
	if startYear != endYear {
		if month >= startMonth {
			return startYear
		}
		return endYear
	}
	return startYear
}
