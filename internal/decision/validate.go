package decision

// 中文说明：
// 模型决策的硬后验校验。按固定顺序执行，首个失败即拒绝并触发规则兜底。
// 拒绝原因用 "KIND: details" 结构化文本，便于审计检索。
// 推理质量检查（长度、关键词）是可调启发式，不是契约。

import (
	"fmt"
	"strings"

	"bidsmith/internal/pkg/moneymath"
	"bidsmith/internal/types"
)

// ValidatorOptions 质量启发式的可调参数。
type ValidatorOptions struct {
	MinReasoningChars    int
	ReasoningKeywords    []string
	MinKeywordHits       int
	LowRiskMinConfidence float64
}

// DefaultValidatorOptions 与线上一致的缺省阈值。
func DefaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{
		MinReasoningChars:    100,
		ReasoningKeywords:    []string{"profit", "risk", "competition", "strategy"},
		MinKeywordHits:       2,
		LowRiskMinConfidence: 0.5,
	}
}

// Validator 决策后验校验器。
type Validator struct {
	opts ValidatorOptions
}

func NewValidator(opts ValidatorOptions) *Validator {
	if opts.MinReasoningChars <= 0 {
		opts = DefaultValidatorOptions()
	}
	return &Validator{opts: opts}
}

// Validate 依序执行全部检查；返回 (是否通过, 拒绝原因)。
func (v *Validator) Validate(d *types.StrategyDecision, ctx types.AuctionContext) (bool, string) {
	if d == nil {
		return false, "MISSING: no reasoner decision available"
	}
	checks := []func(*types.StrategyDecision, types.AuctionContext) string{
		v.checkBidCeiling,
		v.checkBudget,
		v.checkLogicalConsistency,
		v.checkReasoningQuality,
		v.checkContextFit,
	}
	for _, check := range checks {
		if reason := check(d, ctx); reason != "" {
			return false, reason
		}
	}
	return true, ""
}

// checkBidCeiling 出价不得超过估值 80% 的绝对上限。
func (v *Validator) checkBidCeiling(d *types.StrategyDecision, ctx types.AuctionContext) string {
	ceiling := types.HardCeiling(ctx.EstimatedValue)
	if moneymath.GT(d.RecommendedBidAmount, ceiling) {
		return fmt.Sprintf("BID_CEILING: recommended bid ($%.2f) exceeds 80%% of estimated value ($%.2f)",
			d.RecommendedBidAmount, ceiling)
	}
	return ""
}

// checkBudget 出价不得超过可用预算。
func (v *Validator) checkBudget(d *types.StrategyDecision, ctx types.AuctionContext) string {
	if moneymath.GT(d.RecommendedBidAmount, ctx.BudgetAvailable) {
		return fmt.Sprintf("BUDGET: recommended bid ($%.2f) exceeds available budget ($%.2f)",
			d.RecommendedBidAmount, ctx.BudgetAvailable)
	}
	return ""
}

// checkLogicalConsistency 决策内部一致性。
func (v *Validator) checkLogicalConsistency(d *types.StrategyDecision, ctx types.AuctionContext) string {
	if d.Strategy == types.StrategyDoNotBid && d.RecommendedBidAmount > 0 {
		return fmt.Sprintf("LOGICAL_CONSISTENCY: strategy is do_not_bid but recommended_bid_amount is $%.2f",
			d.RecommendedBidAmount)
	}
	if d.Strategy == types.StrategyWaitForCloseout && ctx.NumBidders > 2 {
		return fmt.Sprintf("LOGICAL_CONSISTENCY: wait_for_closeout selected with %d bidders present, closeout unlikely",
			ctx.NumBidders)
	}
	if d.RiskLevel == types.RiskLow && d.Confidence < v.opts.LowRiskMinConfidence {
		return fmt.Sprintf("LOGICAL_CONSISTENCY: low risk requires confidence >= %.2f, got %.2f",
			v.opts.LowRiskMinConfidence, d.Confidence)
	}
	return ""
}

// checkReasoningQuality 推理文本必须有实质内容，不接受敷衍解释。
func (v *Validator) checkReasoningQuality(d *types.StrategyDecision, _ types.AuctionContext) string {
	if len(d.Reasoning) < v.opts.MinReasoningChars {
		return fmt.Sprintf("REASONING_QUALITY: explanation too brief (%d chars, minimum %d)",
			len(d.Reasoning), v.opts.MinReasoningChars)
	}
	lower := strings.ToLower(d.Reasoning)
	hits := 0
	for _, kw := range v.opts.ReasoningKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	if hits < v.opts.MinKeywordHits {
		return fmt.Sprintf("REASONING_QUALITY: explanation lacks depth, found %d of %d required elements",
			hits, v.opts.MinKeywordHits)
	}
	return ""
}

// checkContextFit 策略要与竞拍情境匹配。
func (v *Validator) checkContextFit(d *types.StrategyDecision, ctx types.AuctionContext) string {
	if d.Strategy == types.StrategyAggressiveEarly && ctx.EstimatedValue < 500 {
		return fmt.Sprintf("CONTEXT_FIT: aggressive_early selected for a $%.2f domain, reserved for high-value must-haves",
			ctx.EstimatedValue)
	}
	return ""
}
