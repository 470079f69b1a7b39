package proxy

import (
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWith(value, bid, proxy, budget float64, platform types.Platform) types.AuctionContext {
	return types.AuctionContext{
		Domain:           "example.com",
		Platform:         platform,
		EstimatedValue:   value,
		CurrentBid:       bid,
		YourCurrentProxy: proxy,
		BudgetAvailable:  budget,
	}
}

func TestPlatformIncrement(t *testing.T) {
	assert.Equal(t, 5.0, PlatformIncrement(types.PlatformGoDaddy, 900))
	assert.Equal(t, 5.0, PlatformIncrement(types.PlatformNameJet, 900))
	assert.Equal(t, 5.0, PlatformIncrement(types.PlatformDynadot, 50))
	assert.Equal(t, 45.0, PlatformIncrement(types.PlatformDynadot, 900))
	assert.Equal(t, 5.0, PlatformIncrement(types.Platform("unknown"), 900))
}

func TestInitialSetup(t *testing.T) {
	// value=500: safe max 350，上限 min(350, budget, 400)=350，next=55。
	d := Analyze(ctxWith(500, 50, 0, 5000, types.PlatformGoDaddy))
	assert.Equal(t, types.ProxyInitialSetup, d.ProxyAction)
	assert.True(t, d.ShouldIncreaseProxy)
	require.NotNil(t, d.NewProxyMax)
	assert.Equal(t, 350.0, *d.NewProxyMax)
	require.NotNil(t, d.NextBidAmount)
	assert.Equal(t, 55.0, *d.NextBidAmount)
	assert.Equal(t, 350.0, d.MaxBudgetForDomain)
}

func TestInitialSetupBudgetBound(t *testing.T) {
	d := Analyze(ctxWith(500, 50, 0, 200, types.PlatformGoDaddy))
	require.NotNil(t, d.NewProxyMax)
	assert.Equal(t, 200.0, *d.NewProxyMax, "预算低于 safe max 时按预算封顶")
}

func TestAcceptLossZone(t *testing.T) {
	// value=200: safe max 140 <= bid 160 → 认输。
	d := Analyze(ctxWith(200, 160, 100, 5000, types.PlatformGoDaddy))
	assert.Equal(t, types.ProxyAcceptLoss, d.ProxyAction)
	assert.False(t, d.ShouldIncreaseProxy)
	assert.Nil(t, d.NewProxyMax)
	assert.Zero(t, d.MaxBudgetForDomain)
}

func TestAcceptLossBeatsInitialSetup(t *testing.T) {
	// proxy==0 但已处亏损区：亏损区优先。
	d := Analyze(ctxWith(200, 160, 0, 5000, types.PlatformGoDaddy))
	assert.Equal(t, types.ProxyAcceptLoss, d.ProxyAction)
}

func TestAcceptLossBoundaryEquality(t *testing.T) {
	// safe max 恰好等于当前价也算亏损区（LTE）。
	d := Analyze(ctxWith(1000, 700, 600, 5000, types.PlatformGoDaddy))
	assert.Equal(t, types.ProxyAcceptLoss, d.ProxyAction)
}

func TestIncreaseProxy(t *testing.T) {
	// value=1000, bid=650, proxy=600: potential 700, 余量 100 > 3*5。
	d := Analyze(ctxWith(1000, 650, 600, 5000, types.PlatformGoDaddy))
	assert.Equal(t, types.ProxyIncrease, d.ProxyAction)
	require.NotNil(t, d.NewProxyMax)
	assert.Equal(t, 700.0, *d.NewProxyMax)
	require.NotNil(t, d.NextBidAmount)
	assert.Equal(t, 655.0, *d.NextBidAmount)
}

func TestMaintainProxyWhenHeadroomSmall(t *testing.T) {
	// potential=700, proxy=690: 余量 10 <= 15 → 维持。
	d := Analyze(ctxWith(1000, 650, 690, 5000, types.PlatformGoDaddy))
	assert.Equal(t, types.ProxyMaintain, d.ProxyAction)
	assert.False(t, d.ShouldIncreaseProxy)
	assert.Equal(t, 690.0, d.MaxBudgetForDomain)
}

func TestApplyOverridesStrategyOnAcceptLoss(t *testing.T) {
	strategy := types.StrategyDecision{
		Strategy:             types.StrategyProxyMax,
		RecommendedBidAmount: 140,
		Confidence:           0.9,
		RiskLevel:            types.RiskLow,
		Reasoning:            "original reasoning about profit and competition dynamics for this auction",
	}
	updated, analysis := Apply(ctxWith(200, 160, 100, 5000, types.PlatformGoDaddy), strategy)
	assert.Equal(t, types.ProxyAcceptLoss, analysis.ProxyAction)
	assert.Equal(t, types.StrategyDoNotBid, updated.Strategy)
	assert.Zero(t, updated.RecommendedBidAmount)
	assert.LessOrEqual(t, updated.Confidence, 0.5)
	assert.Equal(t, types.RiskHigh, updated.RiskLevel)
	assert.Contains(t, updated.Reasoning, "PROXY ANALYSIS OVERRIDE")
}

func TestApplyKeepsStrategyOtherwise(t *testing.T) {
	strategy := types.StrategyDecision{
		Strategy:             types.StrategyProxyMax,
		RecommendedBidAmount: 700,
		Confidence:           0.8,
		RiskLevel:            types.RiskMedium,
		Reasoning:            "profit-driven proxy strategy given moderate competition and platform rules",
	}
	updated, analysis := Apply(ctxWith(1000, 650, 600, 5000, types.PlatformGoDaddy), strategy)
	assert.Equal(t, types.StrategyProxyMax, updated.Strategy)
	assert.Equal(t, types.ProxyIncrease, analysis.ProxyAction)
	require.NotNil(t, updated.ShouldIncreaseProxy)
	assert.True(t, *updated.ShouldIncreaseProxy)
	assert.Equal(t, 700.0, updated.MaxBudgetForDomain)
}
