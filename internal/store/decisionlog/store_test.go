package decisionlog

import (
	"context"
	"path/filepath"
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	store, err := NewDecisionLogStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	final := types.FinalDecision{
		Strategy:             types.StrategyProxyMax,
		RecommendedBidAmount: 350,
		DecisionSource:       types.SourceRulesFallback,
	}
	require.NoError(t, store.Append(ctx, Record{
		TraceID:          "t-1",
		Domain:           "example.com",
		Platform:         "godaddy",
		DecisionSource:   "rules_fallback",
		Strategy:         "proxy_max",
		Amount:           350,
		Confidence:       0.75,
		ValidationReason: "MISSING: reasoner disabled",
		Final:            &final,
	}))
	require.NoError(t, store.Append(ctx, Record{TraceID: "t-2", DecisionSource: "safety_block", Strategy: "do_not_bid"}))

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "t-2", recent[0].TraceID, "倒序返回")
	assert.Equal(t, "t-1", recent[1].TraceID)
	require.NotNil(t, recent[1].Final)
	assert.Equal(t, types.StrategyProxyMax, recent[1].Final.Strategy)
	assert.NotZero(t, recent[1].Timestamp)
}

func TestEmptyPathRejected(t *testing.T) {
	_, err := NewDecisionLogStore("")
	assert.Error(t, err)
}
