package domain

import (
	"regexp"
	"strings"
)

// DuplicateOverlapThreshold is the token-overlap ratio above which two
// titles are considered the same story. Empirical constant carried over
// from production tuning; changing it is a product decision.
const DuplicateOverlapThreshold = 0.7

// minTitleLength discards degenerate titles that are too short to
// meaningfully compare.
const minTitleLength = 10

var tokenRe = regexp.MustCompile(`\w+`)

// Dedupe collapses near-identical records across sources. Records are
// processed in arrival order; a candidate whose title token-set overlaps a
// previously accepted one by more than DuplicateOverlapThreshold is
// dropped, so the first-encountered variant always wins. Quadratic in the
// candidate count, which is bounded by the per-adapter result caps.
func Dedupe(records []SignalRecord) []SignalRecord {
	kept := make([]SignalRecord, 0, len(records))
	seen := make([]map[string]bool, 0, len(records))

	for _, rec := range records {
		title := strings.TrimSpace(strings.ToLower(rec.Title))
		if len(title) < minTitleLength {
			continue
		}

		tokens := tokenize(title)
		duplicate := false
		for _, prev := range seen {
			if overlapRatio(tokens, prev) > DuplicateOverlapThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen = append(seen, tokens)
		kept = append(kept, rec)
	}
	return kept
}

func tokenize(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range tokenRe.FindAllString(title, -1) {
		tokens[word] = true
	}
	return tokens
}

// overlapRatio is |intersection| / max(|a|, |b|, 1).
func overlapRatio(a, b map[string]bool) float64 {
	common := 0
	for token := range a {
		if b[token] {
			common++
		}
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(common) / float64(denom)
}
