package domain

import (
	"sort"
	"time"
)

// DefaultRankLimit caps the ranked output handed to the scorer and to
// caller-facing listings.
const DefaultRankLimit = 8

// sentinelPublished stands in for an absent timestamp so comparisons stay
// total; far enough in the past that any real timestamp sorts first.
var sentinelPublished = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Rank orders records by severity (High before Medium before anything
// else) and then by published time, most recent first. The sort is stable:
// equal-key records keep their arrival order, so output is reproducible
// given reproducible adapter output. Output is truncated to limit; pass
// <= 0 for DefaultRankLimit.
func Rank(records []SignalRecord, limit int) []SignalRecord {
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	ranked := make([]SignalRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := severityRank(ranked[i].Severity), severityRank(ranked[j].Severity)
		if si != sj {
			return si < sj
		}
		return publishedOrSentinel(ranked[i]).After(publishedOrSentinel(ranked[j]))
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// severityRank orders High first and pushes unknown severities last; the
// filter never emits them, but the sort stays total regardless.
func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

func publishedOrSentinel(rec SignalRecord) time.Time {
	if rec.PublishedAt == nil {
		return sentinelPublished
	}
	return *rec.PublishedAt
}
