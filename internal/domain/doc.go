// Package domain models risk signals and the pure pipeline stages that
// reduce them to a composite risk score.
//
// # Signals
//
// A SignalRecord is one externally observed item (a news article, an
// emergency feed entry, or a market move) normalized into a common shape
// by the source adapters. Three kinds exist, one per adapter:
//
//	hazard_news     search-style news API hits for hazard keywords
//	emergency_feed  syndication feed entries from emergency services
//	financial_news  company news and synthetic market-movement records
//
// # Pipeline stages
//
// The stages are pure functions applied in a fixed order after all adapter
// results are merged:
//
//	Filter  keeps records matching the vocabulary (and the location, for
//	        location-scoped kinds) and assigns a High/Medium severity.
//	Dedupe  drops near-duplicate titles across sources: title token-set
//	        overlap ratio above 0.7 against any accepted record. First
//	        arrival wins; titles under 10 characters are discarded.
//	Rank    stable sort by severity then recency; absent timestamps sort
//	        last via a fixed sentinel date (2000-01-01). Top 8 retained.
//	Score   65 + min(5*hazard, 20) + min(2*financial, 10), so totals span
//	        65–95. Tier is High above 80, Medium above 60, and Low for a
//	        zero-signal assessment.
//
// Severity assignment, duplicate thresholds, point weights, and tier
// thresholds are fixed named constants, not request-time configuration.
package domain
