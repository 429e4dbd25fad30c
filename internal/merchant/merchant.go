// Package merchant cleans raw merchant descriptions: it strips payment
// processor prefixes and the location/phone/reference noise statements print
// after the merchant name.
package merchant

import (
	"regexp"
	"strings"
)

var (
	processorPrefixes = regexp.MustCompile(`^(AplPay|TST\*|SQ \*)\s*`)
	phonePattern      = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	longRefPattern    = regexp.MustCompile(`^\d{10,}$`)
	storeNumPattern   = regexp.MustCompile(`^#?\d{3,}$`)
	whitespace        = regexp.MustCompile(`\s+`)
	trailingTag       = regexp.MustCompile(`[#*]+\S*$`)
)

// stateCodes is the set of two-letter US state and territory abbreviations
// stripped from the tail of a merchant description.
var stateCodes = map[string]struct{}{}

func init() {
	for _, code := range []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
		"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
		"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
		"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
		"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
		"DC", "PR",
	} {
		stateCodes[code] = struct{}{}
	}
}

// Cleaner strips location and reference noise from merchant text. Cities is
// an optional table of city names (upper-case) also stripped from the tail.
type Cleaner struct {
	cities map[string]struct{}
}

// NewCleaner builds a Cleaner with an optional city-name table.
func NewCleaner(cities []string) *Cleaner {
	c := &Cleaner{cities: make(map[string]struct{}, len(cities))}
	for _, city := range cities {
		c.cities[strings.ToUpper(city)] = struct{}{}
	}
	return c
}

// Clean returns a display-quality merchant name for raw merchant+location
// text. If cleaning leaves fewer than 3 characters, the first word of the
// original text is returned instead of an empty merchant.
func (c *Cleaner) Clean(raw string) string {
	original := strings.TrimSpace(raw)
	if original == "" {
		return ""
	}

	text := processorPrefixes.ReplaceAllString(original, "")
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")

	words := strings.Fields(text)
	for len(words) > 1 {
		last := words[len(words)-1]
		if !c.isNoiseToken(last) {
			break
		}
		words = words[:len(words)-1]
	}

	cleaned := strings.Join(words, " ")
	cleaned = strings.TrimSpace(trailingTag.ReplaceAllString(cleaned, ""))

	if len(cleaned) < 3 {
		fallback := strings.Fields(original)
		if len(fallback) > 0 {
			return fallback[0]
		}
		return ""
	}

	return cleaned
}

// isNoiseToken reports whether a trailing token is location or reference
// noise rather than part of the merchant name.
func (c *Cleaner) isNoiseToken(token string) bool {
	upper := strings.ToUpper(token)
	if _, ok := stateCodes[upper]; ok {
		return true
	}
	if _, ok := c.cities[upper]; ok {
		return true
	}
	return phonePattern.MatchString(token) ||
		longRefPattern.MatchString(token) ||
		storeNumPattern.MatchString(token)
}
