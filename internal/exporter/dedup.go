package exporter

import "jramos/stmt2sheet/internal/models"

// Dedupe removes exact repeats of Name|Date|Merchant|Amount while keeping
// first-seen order. Statement pages reprinted in continuation sections would
// otherwise double-count.
func Dedupe(records []models.TransactionRecord) []models.TransactionRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]

	for _, r := range records {
		key := r.Name + "|" + r.Date + "|" + r.Merchant + "|" + r.Amount.StringFixed(2)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
