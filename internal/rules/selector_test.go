package rules

import (
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
)

func auction(value float64, bidders int, hours float64, platform types.Platform) types.AuctionContext {
	return types.AuctionContext{
		Domain:          "example.com",
		Platform:        platform,
		EstimatedValue:  value,
		BudgetAvailable: 100000,
		NumBidders:      bidders,
		HoursRemaining:  hours,
	}
}

func noIntel() types.MarketIntelligence {
	return types.MarketIntelligence{
		Bidder: types.BidderIntel{BehavioralCluster: types.ClusterUnknown},
	}
}

func TestTierBoundariesResolveUp(t *testing.T) {
	assert.Equal(t, types.TierHigh, types.TierFor(1000))
	assert.Equal(t, types.TierMedium, types.TierFor(999.99))
	assert.Equal(t, types.TierMedium, types.TierFor(100))
	assert.Equal(t, types.TierLow, types.TierFor(99.99))
}

func TestHighValueBotDetected(t *testing.T) {
	ctx := auction(2500, 4, 5, types.PlatformNameJet)
	ctx.BidderAnalysis.BotDetected = true
	d := NewSelector().Select(ctx, noIntel())
	assert.Equal(t, types.StrategyLastMinuteSnipe, d.Strategy)
	assert.Equal(t, 1750.0, d.RecommendedBidAmount, "safe max = 70% of 2500")
}

func TestHighValueCompetition(t *testing.T) {
	d := NewSelector().Select(auction(2000, 3, 5, types.PlatformNameJet), noIntel())
	assert.Equal(t, types.StrategyLastMinuteSnipe, d.Strategy)
}

func TestHighValueFewBidders(t *testing.T) {
	d := NewSelector().Select(auction(2000, 1, 5, types.PlatformNameJet), noIntel())
	assert.Equal(t, types.StrategyProxyMax, d.Strategy)
	assert.Equal(t, 1400.0, d.RecommendedBidAmount)
}

func TestHighValueNoBiddersLateWaits(t *testing.T) {
	d := NewSelector().Select(auction(2000, 0, 0.5, types.PlatformNameJet), noIntel())
	assert.Equal(t, types.StrategyWaitForCloseout, d.Strategy)

	d = NewSelector().Select(auction(2000, 0, 5, types.PlatformNameJet), noIntel())
	assert.Equal(t, types.StrategyProxyMax, d.Strategy)
}

func TestMediumGoDaddyLateSnipes(t *testing.T) {
	d := NewSelector().Select(auction(500, 1, 0.5, types.PlatformGoDaddy), noIntel())
	assert.Equal(t, types.StrategyLastMinuteSnipe, d.Strategy)

	// 同条件换平台不触发。
	d = NewSelector().Select(auction(500, 1, 0.5, types.PlatformNameJet), noIntel())
	assert.Equal(t, types.StrategyProxyMax, d.Strategy)
}

func TestMediumCompetitionIncremental(t *testing.T) {
	d := NewSelector().Select(auction(500, 3, 5, types.PlatformNameJet), noIntel())
	assert.Equal(t, types.StrategyIncrementalTest, d.Strategy)
}

func TestLowValueNoBiddersWaits(t *testing.T) {
	d := NewSelector().Select(auction(75, 0, 0.5, types.PlatformGoDaddy), noIntel())
	assert.Equal(t, types.StrategyWaitForCloseout, d.Strategy)

	d = NewSelector().Select(auction(75, 2, 0.5, types.PlatformGoDaddy), noIntel())
	assert.Equal(t, types.StrategyIncrementalTest, d.Strategy)
}

func TestAmountsRespectBudgetAndCeiling(t *testing.T) {
	ctx := auction(500, 1, 5, types.PlatformNameJet)
	ctx.BudgetAvailable = 120
	d := NewSelector().Select(ctx, noIntel())
	assert.Equal(t, 120.0, d.RecommendedBidAmount, "预算低于 safe max 时按预算封顶")
}

func TestAllBranchesWellFormed(t *testing.T) {
	cases := []types.AuctionContext{
		auction(2000, 0, 5, types.PlatformNameJet),
		auction(2000, 0, 0.5, types.PlatformNameJet),
		auction(2000, 2, 5, types.PlatformDynadot),
		auction(2000, 5, 5, types.PlatformDynadot),
		auction(500, 0, 0.5, types.PlatformGoDaddy),
		auction(500, 4, 5, types.PlatformNameJet),
		auction(500, 1, 5, types.PlatformNameJet),
		auction(75, 0, 1, types.PlatformGoDaddy),
		auction(75, 3, 1, types.PlatformGoDaddy),
	}
	for _, ctx := range cases {
		ctx.BidderAnalysis.BotDetected = ctx.NumBidders == 5
		d := NewSelector().Select(ctx, noIntel())
		assert.True(t, d.Strategy.Valid())
		assert.NotEqual(t, types.StrategyDoNotBid, d.Strategy, "规则层永远给出可执行策略")
		assert.GreaterOrEqual(t, d.Confidence, 0.70)
		assert.LessOrEqual(t, d.Confidence, 0.90)
		assert.GreaterOrEqual(t, len(d.Reasoning), 50)
		assert.LessOrEqual(t, d.RecommendedBidAmount, types.HardCeiling(ctx.EstimatedValue))
		assert.LessOrEqual(t, d.RecommendedBidAmount, ctx.BudgetAvailable)
	}
}
