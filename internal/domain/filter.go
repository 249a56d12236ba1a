package domain

import "strings"

// maxMatchedKeywords bounds the keywords retained per record; they exist
// for observability only and do not affect ranking.
const maxMatchedKeywords = 3

// Filter applies the relevance rules to raw adapter output: a record
// survives only if at least one vocabulary term matches its combined
// title+detail text and, for location-scoped kinds, the location string
// appears in that text. Surviving records get a severity tier and the
// first three matched keywords.
//
// Records arriving with an adapter-assigned severity (synthetic market
// movements) are passed through unchanged: their relevance was decided at
// the source from price data, not text.
func Filter(records []SignalRecord, location string, vocab *Vocabulary) []SignalRecord {
	locationLower := strings.ToLower(strings.TrimSpace(location))

	kept := make([]SignalRecord, 0, len(records))
	for _, rec := range records {
		if rec.Severity != "" {
			kept = append(kept, rec)
			continue
		}

		text := strings.ToLower(rec.Title + " " + rec.Detail)

		matched := vocab.Match(text)
		if len(matched) == 0 {
			continue
		}
		if rec.Kind.LocationScoped() {
			if locationLower == "" || !strings.Contains(text, locationLower) {
				continue
			}
		}
		if len(matched) > maxMatchedKeywords {
			matched = matched[:maxMatchedKeywords]
		}

		out := rec
		out.Location = strings.TrimSpace(location)
		out.Severity = vocab.SeverityFor(matched)
		out.MatchedKeywords = matched
		kept = append(kept, out)
	}
	return kept
}
