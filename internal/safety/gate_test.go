package safety

import (
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
)

func baseCtx() types.AuctionContext {
	return types.AuctionContext{
		Domain:          "example.com",
		Platform:        types.PlatformGoDaddy,
		EstimatedValue:  1000,
		CurrentBid:      100,
		BudgetAvailable: 5000,
		NumBidders:      1,
		HoursRemaining:  3,
	}
}

func TestCheckAllPass(t *testing.T) {
	r := Check(baseCtx())
	assert.False(t, r.Blocked)
	assert.Empty(t, r.Rule)
}

func TestValuationInvalidBlocks(t *testing.T) {
	ctx := baseCtx()
	ctx.EstimatedValue = 0
	r := Check(ctx)
	assert.True(t, r.Blocked)
	assert.Equal(t, "valuation_invalid", r.Rule)
}

func TestMinimumBudgetBoundary(t *testing.T) {
	ctx := baseCtx()
	ctx.EstimatedValue = 50 // 避免触发集中度规则
	ctx.CurrentBid = 10     // 避免触发超付规则（130% × 50 = 65）
	ctx.BudgetAvailable = 100
	assert.False(t, Check(ctx).Blocked, "恰好 $100 预算应放行")

	ctx.BudgetAvailable = 99.99
	r := Check(ctx)
	assert.True(t, r.Blocked)
	assert.Equal(t, "minimum_budget", r.Rule)
}

func TestOverpaymentStrictInequality(t *testing.T) {
	ctx := baseCtx()
	ctx.EstimatedValue = 1000
	ctx.CurrentBid = 1300 // 恰好 130%
	assert.False(t, Check(ctx).Blocked, "恰好 130% 不拦截")

	ctx.CurrentBid = 1300.01
	r := Check(ctx)
	assert.True(t, r.Blocked)
	assert.Equal(t, "overpayment", r.Rule)
	assert.Contains(t, r.Reason, "OVERPAYMENT")
}

func TestPortfolioConcentration(t *testing.T) {
	ctx := baseCtx()
	ctx.EstimatedValue = 2500
	ctx.BudgetAvailable = 5000
	assert.False(t, Check(ctx).Blocked, "恰好 50% 应放行")

	ctx.EstimatedValue = 2500.01
	r := Check(ctx)
	assert.True(t, r.Blocked)
	assert.Equal(t, "portfolio_concentration", r.Rule)
}

func TestCheckOrderValuationFirst(t *testing.T) {
	// 同时违反多条时按优先级报首条。
	ctx := baseCtx()
	ctx.EstimatedValue = 0
	ctx.BudgetAvailable = 10
	r := Check(ctx)
	assert.Equal(t, "valuation_invalid", r.Rule)
}

func TestBlockDecisionShape(t *testing.T) {
	ctx := baseCtx()
	ctx.CurrentBid = 1350
	r := Check(ctx)
	final := BlockDecision(r)
	assert.Equal(t, types.StrategyDoNotBid, final.Strategy)
	assert.Zero(t, final.RecommendedBidAmount)
	assert.Equal(t, types.SourceSafetyBlock, final.DecisionSource)
	assert.InDelta(t, 0.95, final.Confidence, 1e-9)
	assert.NotEmpty(t, final.BlockReason)
}
