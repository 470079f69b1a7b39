package decision

import (
	"strings"
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
)

func validDecision() *types.StrategyDecision {
	return &types.StrategyDecision{
		Strategy:             types.StrategyProxyMax,
		RecommendedBidAmount: 700,
		Confidence:           0.8,
		RiskLevel:            types.RiskMedium,
		Reasoning: "Setting proxy max protects profit while platform auto-bidding absorbs competition; " +
			"risk stays bounded by the strategy cap and the moderate bidder count.",
	}
}

func validCtx() types.AuctionContext {
	return types.AuctionContext{
		Domain:          "example.com",
		Platform:        types.PlatformGoDaddy,
		EstimatedValue:  1000,
		CurrentBid:      100,
		BudgetAvailable: 5000,
		NumBidders:      2,
		HoursRemaining:  3,
	}
}

func TestValidateAccepts(t *testing.T) {
	ok, reason := NewValidator(DefaultValidatorOptions()).Validate(validDecision(), validCtx())
	assert.True(t, ok, reason)
	assert.Empty(t, reason)
}

func TestBidCeiling(t *testing.T) {
	d := validDecision()
	d.RecommendedBidAmount = 800.01
	ok, reason := NewValidator(DefaultValidatorOptions()).Validate(d, validCtx())
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(reason, "BID_CEILING:"), reason)

	// 恰好 80% 放行。
	d.RecommendedBidAmount = 800
	ok, _ = NewValidator(DefaultValidatorOptions()).Validate(d, validCtx())
	assert.True(t, ok)
}

func TestBudgetFeasibility(t *testing.T) {
	ctx := validCtx()
	ctx.BudgetAvailable = 600
	d := validDecision()
	ok, reason := NewValidator(DefaultValidatorOptions()).Validate(d, ctx)
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(reason, "BUDGET:"), reason)
}

func TestLogicalConsistency(t *testing.T) {
	v := NewValidator(DefaultValidatorOptions())

	d := validDecision()
	d.Strategy = types.StrategyDoNotBid
	ok, reason := v.Validate(d, validCtx())
	assert.False(t, ok)
	assert.Contains(t, reason, "LOGICAL_CONSISTENCY")

	d = validDecision()
	d.Strategy = types.StrategyWaitForCloseout
	ctx := validCtx()
	ctx.NumBidders = 3
	ok, reason = v.Validate(d, ctx)
	assert.False(t, ok)
	assert.Contains(t, reason, "closeout")

	// 恰好 2 个对手允许。
	ctx.NumBidders = 2
	ok, _ = v.Validate(d, ctx)
	assert.True(t, ok)

	d = validDecision()
	d.RiskLevel = types.RiskLow
	d.Confidence = 0.4
	ok, reason = v.Validate(d, validCtx())
	assert.False(t, ok)
	assert.Contains(t, reason, "confidence")
}

func TestReasoningQuality(t *testing.T) {
	v := NewValidator(DefaultValidatorOptions())

	d := validDecision()
	d.Reasoning = strings.Repeat("x", 99)
	ok, reason := v.Validate(d, validCtx())
	assert.False(t, ok)
	assert.Contains(t, reason, "REASONING_QUALITY")

	// 够长但缺关键词。
	d.Reasoning = strings.Repeat("filler words without required concepts here, padding. ", 4)
	ok, reason = v.Validate(d, validCtx())
	assert.False(t, ok)
	assert.Contains(t, reason, "lacks depth")
}

func TestContextFit(t *testing.T) {
	d := validDecision()
	d.Strategy = types.StrategyAggressiveEarly
	d.RecommendedBidAmount = 300 // 低于 400 估值的 80% 上限，只让 CONTEXT_FIT 生效
	ctx := validCtx()
	ctx.EstimatedValue = 400
	ok, reason := NewValidator(DefaultValidatorOptions()).Validate(d, ctx)
	assert.False(t, ok)
	assert.Contains(t, reason, "CONTEXT_FIT")

	ctx.EstimatedValue = 500
	ok, _ = NewValidator(DefaultValidatorOptions()).Validate(d, ctx)
	assert.True(t, ok)
}

func TestCheckOrderCeilingFirst(t *testing.T) {
	// 同时违反上限与预算时先报上限。
	ctx := validCtx()
	ctx.BudgetAvailable = 100
	d := validDecision()
	d.RecommendedBidAmount = 900
	_, reason := NewValidator(DefaultValidatorOptions()).Validate(d, ctx)
	assert.True(t, strings.HasPrefix(reason, "BID_CEILING:"), reason)
}

func TestMissingDecision(t *testing.T) {
	ok, reason := NewValidator(DefaultValidatorOptions()).Validate(nil, validCtx())
	assert.False(t, ok)
	assert.Contains(t, reason, "MISSING")
}
