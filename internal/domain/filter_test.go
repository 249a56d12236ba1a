package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_KeywordAndLocationRequired(t *testing.T) {
	vocab := DefaultVocabulary()

	records := []SignalRecord{
		{Kind: KindHazardNews, Title: "Flood warning issued for Sydney"},
		{Kind: KindHazardNews, Title: "Flood warning issued for Brisbane"},
		{Kind: KindHazardNews, Title: "Sydney opera house reopens after renovation"},
		{Kind: KindEmergencyFeed, Title: "Bushfire evacuation ordered near Sydney"},
	}

	got := Filter(records, "Sydney", vocab)

	require.Len(t, got, 2)
	assert.Equal(t, "Flood warning issued for Sydney", got[0].Title)
	assert.Equal(t, "Bushfire evacuation ordered near Sydney", got[1].Title)
}

func TestFilter_FinancialKindIgnoresLocation(t *testing.T) {
	vocab := DefaultVocabulary()

	records := []SignalRecord{
		{Kind: KindFinancialNews, Title: "AAPL earnings miss expectations"},
	}

	got := Filter(records, "Sydney", vocab)

	require.Len(t, got, 1)
	assert.Equal(t, SeverityMedium, got[0].Severity)
	assert.Equal(t, []string{"earnings"}, got[0].MatchedKeywords)
}

func TestFilter_SeverityAssignment(t *testing.T) {
	vocab := DefaultVocabulary()

	records := []SignalRecord{
		{Kind: KindHazardNews, Title: "Evacuation ordered as flood hits Sydney"},
		{Kind: KindHazardNews, Title: "Storm warning for Sydney this weekend"},
	}

	got := Filter(records, "Sydney", vocab)

	require.Len(t, got, 2)
	assert.Equal(t, SeverityHigh, got[0].Severity)
	assert.Equal(t, SeverityMedium, got[1].Severity)
}

func TestFilter_MatchedKeywordsCappedInVocabularyOrder(t *testing.T) {
	vocab := DefaultVocabulary()

	records := []SignalRecord{
		{
			Kind:  KindHazardNews,
			Title: "Sydney flood disaster: storm triggers evacuation and fire warning",
		},
	}

	got := Filter(records, "Sydney", vocab)

	require.Len(t, got, 1)
	// Vocabulary order, not appearance order, and never more than three.
	assert.Equal(t, []string{"disaster", "evacuation", "fire"}, got[0].MatchedKeywords)
}

func TestFilter_EmptyLocationDropsScopedKinds(t *testing.T) {
	vocab := DefaultVocabulary()

	records := []SignalRecord{
		{Kind: KindHazardNews, Title: "Flood warning issued for Sydney"},
		{Kind: KindFinancialNews, Title: "Tech stocks surge on earnings"},
	}

	got := Filter(records, "", vocab)

	require.Len(t, got, 1)
	assert.Equal(t, KindFinancialNews, got[0].Kind)
}

func TestFilter_PreassignedSeverityPassesThrough(t *testing.T) {
	vocab := DefaultVocabulary()

	// Synthetic market movement: no vocabulary term in the title, severity
	// already decided from price data.
	records := []SignalRecord{
		{Kind: KindFinancialNews, Title: "SPY dropped 6.2% today", Severity: SeverityHigh},
	}

	got := Filter(records, "Sydney", vocab)

	require.Len(t, got, 1)
	assert.Equal(t, SeverityHigh, got[0].Severity)
	assert.Empty(t, got[0].MatchedKeywords)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	vocab := DefaultVocabulary()

	records := []SignalRecord{
		{Kind: KindHazardNews, Title: "Flood warning issued for Sydney"},
	}

	_ = Filter(records, "Sydney", vocab)

	assert.Empty(t, records[0].Severity)
	assert.Empty(t, records[0].Location)
	assert.Nil(t, records[0].MatchedKeywords)
}

func TestFilter_SubstringDoesNotMatch(t *testing.T) {
	vocab := DefaultVocabulary()

	// "firefly" contains "fire" but not as a whole word.
	records := []SignalRecord{
		{Kind: KindHazardNews, Title: "Firefly festival lights up Sydney parks this summer"},
	}

	got := Filter(records, "Sydney", vocab)
	assert.Empty(t, got)
}
