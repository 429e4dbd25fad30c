// Package nameval validates cardholder-name candidates against the configured
// rule tables. Both issuers share the same validator with different word
// limits and false-positive phrase lists.
package nameval

import (
	"strings"
	"unicode"
)

// Validator checks whether a candidate string is plausibly a person's name as
// printed on a statement. All rule tables are injected; the validator itself
// holds no issuer knowledge beyond them.
type Validator struct {
	particles      map[string]struct{}
	businessTerms  map[string]struct{}
	falsePositives []string
	maxWords       int
}

// New builds a Validator from the configured tables. maxWords is the upper
// bound on name word count (AmEx statements print up to 4 words, Chase up
// to 5).
func New(particles, businessTerms, falsePositives []string, maxWords int) *Validator {
	v := &Validator{
		particles:      make(map[string]struct{}, len(particles)),
		businessTerms:  make(map[string]struct{}, len(businessTerms)),
		falsePositives: falsePositives,
		maxWords:       maxWords,
	}
	for _, p := range particles {
		v.particles[p] = struct{}{}
	}
	for _, t := range businessTerms {
		v.businessTerms[t] = struct{}{}
	}
	return v
}

// IsValidName reports whether the candidate passes every name rule. Any
// failure rejects the candidate; it then falls through to transaction or
// noise classification at the call site.
func (v *Validator) IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return false
	}

	words := strings.Fields(name)
	if len(words) < 2 || len(words) > v.maxWords {
		return false
	}

	if !isUpper(name) {
		return false
	}

	for _, word := range words {
		if _, ok := v.particles[word]; ok {
			continue
		}
		if !isAlphabetic(word) {
			return false
		}
		if len(word) < 2 || len(word) > 15 {
			return false
		}
		// Short vowelless words are acronyms or column labels, not names.
		if len(word) <= 3 && !containsVowel(word) {
			return false
		}
		if _, ok := v.businessTerms[word]; ok {
			return false
		}
	}

	upper := strings.ToUpper(name)
	for _, fp := range v.falsePositives {
		if strings.Contains(upper, fp) {
			return false
		}
	}

	return true
}

// isUpper mirrors the "entirely upper-case" rule: the string must contain at
// least one letter and no lowercase letters.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

func containsVowel(s string) bool {
	return strings.ContainsAny(s, "AEIOU")
}
