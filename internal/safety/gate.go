package safety

// 中文说明：
// 硬编码安全前置过滤。任何下游（模型、规则、代理层）都无权推翻这里的拦截。
// 阈值是编译期常量，刻意不接配置。

import (
	"fmt"

	"bidsmith/internal/pkg/moneymath"
	"bidsmith/internal/types"
)

const (
	// MinBudget 参与竞拍的最低可用预算。
	MinBudget = 100.0
	// OverpaymentMultiple 当前价超过估值的该倍数即进入 winner's curse 区间。
	OverpaymentMultiple = 1.30
	// ConcentrationRatio 单域名估值占剩余预算的上限。
	ConcentrationRatio = 0.50
	// BlockConfidence 拦截决策统一置信度。
	BlockConfidence = 0.95
)

// Result 安全检查结论。Blocked=false 时 Rule/Reason 为空。
type Result struct {
	Blocked bool
	Rule    string
	Reason  string
}

// Check 按固定优先级执行全部硬规则，首个触发者生效。
func Check(ctx types.AuctionContext) Result {
	if r := checkValuation(ctx); r.Blocked {
		return r
	}
	if r := checkMinimumBudget(ctx); r.Blocked {
		return r
	}
	if r := checkOverpayment(ctx); r.Blocked {
		return r
	}
	if r := checkConcentration(ctx); r.Blocked {
		return r
	}
	return Result{}
}

func checkValuation(ctx types.AuctionContext) Result {
	if ctx.EstimatedValue <= 0 {
		return Result{
			Blocked: true,
			Rule:    "valuation_invalid",
			Reason: fmt.Sprintf(
				"VALUATION INVALID: estimated value ($%.2f) is invalid or missing, profit margins cannot be calculated",
				ctx.EstimatedValue),
		}
	}
	return Result{}
}

func checkMinimumBudget(ctx types.AuctionContext) Result {
	if moneymath.LT(ctx.BudgetAvailable, MinBudget) {
		return Result{
			Blocked: true,
			Rule:    "minimum_budget",
			Reason: fmt.Sprintf(
				"MINIMUM BUDGET: available budget ($%.2f) below the $%.0f floor for meaningful participation",
				ctx.BudgetAvailable, MinBudget),
		}
	}
	return Result{}
}

func checkOverpayment(ctx types.AuctionContext) Result {
	threshold := moneymath.Mul(ctx.EstimatedValue, OverpaymentMultiple)
	// 严格大于才拦截：恰好 130% 仍放行。
	if moneymath.GT(ctx.CurrentBid, threshold) {
		return Result{
			Blocked: true,
			Rule:    "overpayment",
			Reason: fmt.Sprintf(
				"OVERPAYMENT PROTECTION: current bid ($%.2f) exceeds 130%% of estimated value ($%.2f), winner's curse territory",
				ctx.CurrentBid, ctx.EstimatedValue),
		}
	}
	return Result{}
}

func checkConcentration(ctx types.AuctionContext) Result {
	maxDomainBudget := moneymath.Mul(ctx.BudgetAvailable, ConcentrationRatio)
	if moneymath.GT(ctx.EstimatedValue, maxDomainBudget) {
		return Result{
			Blocked: true,
			Rule:    "portfolio_concentration",
			Reason: fmt.Sprintf(
				"PORTFOLIO CONCENTRATION: domain value ($%.2f) would consume over 50%% of remaining budget ($%.2f), max allowed $%.2f",
				ctx.EstimatedValue, ctx.BudgetAvailable, maxDomainBudget),
		}
	}
	return Result{}
}

// BlockDecision 把拦截结论转成标准的 do_not_bid 最终决策。
func BlockDecision(r Result) types.FinalDecision {
	return types.FinalDecision{
		Strategy:             types.StrategyDoNotBid,
		RecommendedBidAmount: 0,
		ShouldIncreaseProxy:  false,
		MaxBudgetForDomain:   0,
		RiskLevel:            types.RiskHigh,
		Confidence:           BlockConfidence,
		Reasoning:            r.Reason,
		DecisionSource:       types.SourceSafetyBlock,
		BlockReason:          r.Rule + ": " + r.Reason,
	}
}
