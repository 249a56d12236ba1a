package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour int) *time.Time {
	t := time.Date(2026, time.March, 15, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestRank_SeverityBeforeRecency(t *testing.T) {
	records := []SignalRecord{
		{Title: "old medium", Severity: SeverityMedium, PublishedAt: ts(1)},
		{Title: "new medium", Severity: SeverityMedium, PublishedAt: ts(12)},
		{Title: "old high", Severity: SeverityHigh, PublishedAt: ts(2)},
		{Title: "new high", Severity: SeverityHigh, PublishedAt: ts(10)},
	}

	got := Rank(records, 0)

	require.Len(t, got, 4)
	assert.Equal(t, "new high", got[0].Title)
	assert.Equal(t, "old high", got[1].Title)
	assert.Equal(t, "new medium", got[2].Title)
	assert.Equal(t, "old medium", got[3].Title)
}

func TestRank_MissingTimestampsSortLast(t *testing.T) {
	records := []SignalRecord{
		{Title: "undated", Severity: SeverityHigh},
		{Title: "dated", Severity: SeverityHigh, PublishedAt: ts(3)},
	}

	got := Rank(records, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "dated", got[0].Title)
	assert.Equal(t, "undated", got[1].Title)
}

func TestRank_StableOnEqualKeys(t *testing.T) {
	records := []SignalRecord{
		{Title: "first", Severity: SeverityMedium, PublishedAt: ts(5)},
		{Title: "second", Severity: SeverityMedium, PublishedAt: ts(5)},
		{Title: "third", Severity: SeverityMedium, PublishedAt: ts(5)},
	}

	got := Rank(records, 0)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
	assert.Equal(t, "third", got[2].Title)
}

func TestRank_TruncatesToLimit(t *testing.T) {
	records := make([]SignalRecord, 12)
	for i := range records {
		records[i] = SignalRecord{Severity: SeverityMedium, PublishedAt: ts(i + 1)}
	}

	assert.Len(t, Rank(records, 0), DefaultRankLimit)
	assert.Len(t, Rank(records, 3), 3)
	assert.Len(t, Rank(records, 20), 12)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	records := []SignalRecord{
		{Title: "medium", Severity: SeverityMedium, PublishedAt: ts(9)},
		{Title: "high", Severity: SeverityHigh, PublishedAt: ts(1)},
	}

	_ = Rank(records, 0)

	assert.Equal(t, "medium", records[0].Title)
	assert.Equal(t, "high", records[1].Title)
}
