package domain

import (
	"strings"
	"time"
)

// Kind identifies which source family produced a signal. Each adapter emits
// exactly one kind.
type Kind string

const (
	KindHazardNews    Kind = "hazard_news"
	KindEmergencyFeed Kind = "emergency_feed"
	KindFinancialNews Kind = "financial_news"
)

// LocationScoped reports whether records of this kind must mention the
// target location to be considered relevant. Financial news is global.
func (k Kind) LocationScoped() bool {
	return k == KindHazardNews || k == KindEmergencyFeed
}

// Severity is the coarse urgency tier assigned during relevance filtering.
// The zero value means "not yet assigned"; it never survives the filter.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
)

// MaxDetailLength bounds the display detail text. Longer upstream
// descriptions are truncated with an ellipsis marker.
const MaxDetailLength = 150

// SignalRecord is the common unit flowing through the pipeline: one
// externally observed item (news article, feed entry, market move)
// normalized into a single shape. Records are immutable once produced;
// pipeline stages return new records or reorder existing ones.
type SignalRecord struct {
	Kind            Kind       `json:"kind"`
	Title           string     `json:"title"`
	Detail          string     `json:"detail,omitempty"`
	SourceName      string     `json:"source,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	URL             string     `json:"url,omitempty"`
	Location        string     `json:"location,omitempty"`
	Severity        Severity   `json:"severity,omitempty"`
	MatchedKeywords []string   `json:"matched_keywords,omitempty"`
}

// TruncateDetail bounds free text to MaxDetailLength characters, appending
// "..." when anything was cut.
func TruncateDetail(detail string) string {
	runes := []rune(strings.TrimSpace(detail))
	if len(runes) <= MaxDetailLength {
		return string(runes)
	}
	return string(runes[:MaxDetailLength]) + "..."
}
