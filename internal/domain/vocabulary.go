package domain

import (
	"regexp"
	"strings"
)

// Vocabulary is the fixed set of domain keywords used by the relevance
// filter. Terms keep their declaration order so MatchedKeywords is stable.
type Vocabulary struct {
	terms        []string
	patterns     []*regexp.Regexp
	highSeverity map[string]bool
}

// hazardTerms mirrors the hazard taxonomy used when querying news sources.
var hazardTerms = []string{
	"emergency", "disaster", "evacuation", "fire", "flood", "earthquake",
	"storm", "hurricane", "tornado", "accident", "explosion", "spill",
	"hazard", "alert", "warning", "crisis", "incident",
}

// financialTerms flags market-relevant news.
var financialTerms = []string{
	"earnings", "revenue", "loss", "profit", "bankruptcy", "merger",
	"acquisition", "lawsuit", "investigation", "regulation", "fine",
	"crash", "surge", "plunge", "rally", "volatility", "scandal",
}

// highSeverityTerms is the subset that upgrades a matched record to High.
var highSeverityTerms = []string{
	"emergency", "disaster", "evacuation", "explosion", "crisis",
	"bankruptcy", "crash", "plunge", "scandal", "investigation",
}

// NewVocabulary compiles word-boundary matchers for the given terms.
func NewVocabulary(terms, highSeverity []string) *Vocabulary {
	v := &Vocabulary{
		terms:        terms,
		patterns:     make([]*regexp.Regexp, len(terms)),
		highSeverity: make(map[string]bool, len(highSeverity)),
	}
	for i, term := range terms {
		v.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`)
	}
	for _, term := range highSeverity {
		v.highSeverity[strings.ToLower(term)] = true
	}
	return v
}

// DefaultVocabulary returns the combined hazard and financial taxonomy.
func DefaultVocabulary() *Vocabulary {
	terms := make([]string, 0, len(hazardTerms)+len(financialTerms))
	terms = append(terms, hazardTerms...)
	terms = append(terms, financialTerms...)
	return NewVocabulary(terms, highSeverityTerms)
}

// HazardQueryTerms returns the leading hazard keywords used to build
// search-API queries. Capped because upstream query length is limited.
func HazardQueryTerms(n int) []string {
	if n > len(hazardTerms) {
		n = len(hazardTerms)
	}
	return hazardTerms[:n]
}

// Match returns the vocabulary terms present in text as whole words, in
// vocabulary order. Text is expected to be lower-cased by the caller.
func (v *Vocabulary) Match(text string) []string {
	var matched []string
	for i, p := range v.patterns {
		if p.MatchString(text) {
			matched = append(matched, v.terms[i])
		}
	}
	return matched
}

// SeverityFor returns High when any matched term belongs to the
// high-severity subset, else Medium.
func (v *Vocabulary) SeverityFor(matched []string) Severity {
	for _, term := range matched {
		if v.highSeverity[strings.ToLower(term)] {
			return SeverityHigh
		}
	}
	return SeverityMedium
}
