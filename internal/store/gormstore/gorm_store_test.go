package gormstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bidsmith/internal/history"
	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleOutcome(id string, result history.Result) history.AuctionOutcome {
	margin := 0.4
	out := history.AuctionOutcome{
		AuctionID:      id,
		Domain:         "example.com",
		Platform:       types.PlatformGoDaddy,
		Timestamp:      time.Now().UTC(),
		EstimatedValue: 500,
		FinalPrice:     300,
		NumBidders:     2,
		StrategyUsed:   types.StrategyProxyMax,
		RecommendedBid: 350,
		DecisionSource: types.SourceRulesFallback,
		Confidence:     0.75,
		Result:         result,
		Context: &types.AuctionContext{
			Domain:         "example.com",
			Platform:       types.PlatformGoDaddy,
			EstimatedValue: 500,
		},
	}
	if result == history.ResultWon {
		out.ProfitMargin = &margin
	}
	return out
}

func TestOutcomeRoundTripViaGetSimilar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordOutcome(ctx, sampleOutcome("a1", history.ResultWon)))

	got, err := store.GetSimilar(ctx, types.PlatformGoDaddy, 350, 650, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].AuctionID)
	assert.Equal(t, history.ResultWon, got[0].Result)
	require.NotNil(t, got[0].Context)
	assert.Equal(t, "example.com", got[0].Context.Domain)

	// 范围外/平台不符不返回。
	got, err = store.GetSimilar(ctx, types.PlatformGoDaddy, 600, 900, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = store.GetSimilar(ctx, types.PlatformNameJet, 350, 650, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOutcomeIdempotentByAuctionID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordOutcome(ctx, sampleOutcome("a1", history.ResultWon)))
	// 同键重写：同一条 won 记录写两次只累计一次贡献。
	require.NoError(t, store.RecordOutcome(ctx, sampleOutcome("a1", history.ResultWon)))

	stats, err := store.GetStrategyStats(ctx, types.StrategyProxyMax, types.PlatformGoDaddy, types.TierMedium)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUses, "重复记录不得重复累计")
	assert.Equal(t, 1, stats.Wins)
	assert.InDelta(t, 0.4*500, stats.TotalProfit, 1e-9)

	replaced := sampleOutcome("a1", history.ResultLost)
	require.NoError(t, store.RecordOutcome(ctx, replaced))
	stats, err = store.GetStrategyStats(ctx, types.StrategyProxyMax, types.PlatformGoDaddy, types.TierMedium)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUses)
	assert.Zero(t, stats.Wins, "替换为 lost 后原胜场贡献应回退")
}

func TestAggregateNoLostUpdatesUnderConcurrency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "auction-" + string(rune('a'+i%26)) + "-" + time.Now().Format("150405") + "-" + string(rune('0'+i/10)) + string(rune('0'+i%10))
			assert.NoError(t, store.RecordOutcome(ctx, sampleOutcome(id, history.ResultWon)))
		}(i)
	}
	wg.Wait()

	stats, err := store.GetStrategyStats(ctx, types.StrategyProxyMax, types.PlatformGoDaddy, types.TierMedium)
	require.NoError(t, err)
	assert.Equal(t, n, stats.TotalUses)
	assert.Equal(t, n, stats.Wins)
}

func TestRecordRoundUniqueAndOrdered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	round := history.AuctionRound{
		ThreadID:       "t1",
		RoundNumber:    1,
		Domain:         "example.com",
		Platform:       types.PlatformGoDaddy,
		EstimatedValue: 500,
		StrategyUsed:   types.StrategyProxyMax,
		DecisionSource: types.SourceLLM,
		ResultRound:    history.ResultOutbid,
		Timestamp:      time.Now(),
	}
	require.NoError(t, store.RecordRound(ctx, round))
	// 同键重放不报错也不翻倍。
	require.NoError(t, store.RecordRound(ctx, round))
	round.RoundNumber = 2
	require.NoError(t, store.RecordRound(ctx, round))

	rounds, err := store.GetRoundsForThread(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, 1, rounds[0].RoundNumber)
	assert.Equal(t, 2, rounds[1].RoundNumber)
}

func TestGetBestStrategyThreshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// proxy_max: 3 胜 0 负；样本不足 5 时不应返回。
	for i := 0; i < 3; i++ {
		out := sampleOutcome("p"+string(rune('0'+i)), history.ResultWon)
		require.NoError(t, store.RecordOutcome(ctx, out))
	}
	_, ok, err := store.GetBestStrategy(ctx, types.PlatformGoDaddy, types.TierMedium, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	// snipe: 6 条，2 胜。
	for i := 0; i < 6; i++ {
		out := sampleOutcome("s"+string(rune('0'+i)), history.ResultLost)
		if i < 2 {
			out.Result = history.ResultWon
			m := 0.2
			out.ProfitMargin = &m
		}
		out.StrategyUsed = types.StrategyLastMinuteSnipe
		require.NoError(t, store.RecordOutcome(ctx, out))
	}
	best, ok, err := store.GetBestStrategy(ctx, types.PlatformGoDaddy, types.TierMedium, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.StrategyLastMinuteSnipe, best)

	// 阈值放宽后 proxy_max 胜率 100% 应胜出。
	best, ok, err = store.GetBestStrategy(ctx, types.PlatformGoDaddy, types.TierMedium, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.StrategyProxyMax, best)
}

func TestStatsZeroWhenAbsent(t *testing.T) {
	store := newTestStore(t)
	stats, err := store.GetStrategyStats(context.Background(), types.StrategyAggressiveEarly, types.PlatformDynadot, types.TierLow)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUses)
	assert.Zero(t, stats.WinRate())
}
