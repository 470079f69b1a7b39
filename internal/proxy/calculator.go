package proxy

// 中文说明：
// 代理出价数学层：回答“被超价了，是加代理还是认输”。
// 亏损区判定放在最前：safe max 已不高于当前价时，无条件覆盖上游策略为
// do_not_bid —— 这是整条流水线里唯一允许后层推翻前层的地方。

import (
	"fmt"

	"bidsmith/internal/pkg/moneymath"
	"bidsmith/internal/types"
)

const (
	baseIncrement = 5.0
	// dynadotIncrementRatio Dynadot 高价段按当前价 5% 递增。
	dynadotIncrementRatio = 0.05
	// headroomIncrements 加代理至少要换来的增量空间（按最小加价倍数）。
	headroomIncrements = 3
)

// PlatformIncrement 各平台最小加价；未知平台按 $5 兜底。
func PlatformIncrement(platform types.Platform, currentBid float64) float64 {
	switch platform {
	case types.PlatformGoDaddy, types.PlatformNameJet:
		return baseIncrement
	case types.PlatformDynadot:
		return moneymath.Max(baseIncrement, moneymath.Mul(currentBid, dynadotIncrementRatio))
	default:
		return baseIncrement
	}
}

// Analyze 计算代理调整结论。三种场景互斥，亏损区优先判定。
func Analyze(ctx types.AuctionContext) types.ProxyDecision {
	safeMax := types.SafeMax(ctx.EstimatedValue)
	increment := PlatformIncrement(ctx.Platform, ctx.CurrentBid)
	currentProxy := ctx.YourCurrentProxy
	currentBid := ctx.CurrentBid

	// 场景 1：亏损区。safe max 追不上当前价，继续加价必然无利可图。
	if moneymath.LTE(safeMax, currentBid) {
		return types.ProxyDecision{
			CurrentProxy:        currentProxy,
			CurrentBid:          currentBid,
			SafeMax:             safeMax,
			ShouldIncreaseProxy: false,
			MaxBudgetForDomain:  0,
			ProxyAction:         types.ProxyAcceptLoss,
			Explanation: fmt.Sprintf(
				"PROFIT IMPOSSIBLE: safe max ($%.2f) is at or below current bid ($%.2f). Raising the proxy past the budget cap would guarantee a winner's curse. Accept the loss and do not increase.",
				safeMax, currentBid),
		}
	}

	potential := moneymath.Min(safeMax, ctx.BudgetAvailable, types.HardCeiling(ctx.EstimatedValue))
	nextBid := moneymath.Add(currentBid, increment)

	// 场景 2：首次设置代理。
	if currentProxy == 0 {
		return types.ProxyDecision{
			CurrentProxy:        0,
			CurrentBid:          currentBid,
			SafeMax:             safeMax,
			ShouldIncreaseProxy: true,
			NewProxyMax:         types.Float64Ptr(potential),
			NextBidAmount:       types.Float64Ptr(nextBid),
			MaxBudgetForDomain:  potential,
			ProxyAction:         types.ProxyInitialSetup,
			Explanation: fmt.Sprintf(
				"INITIAL PROXY SETUP: no proxy set yet. Safe max is $%.2f (70%% of $%.2f); proxy goes to $%.2f and the next visible bid will be $%.2f ($%.2f + $%.2f increment). The domain can never cost more than $%.2f even if fully contested.",
				safeMax, ctx.EstimatedValue, potential, nextBid, currentBid, increment, potential),
		}
	}

	// 场景 3：可加价区。只有换来足够余量才值得动代理。
	minIncreaseThreshold := moneymath.Mul(increment, headroomIncrements)
	if moneymath.GT(moneymath.Sub(potential, currentProxy), minIncreaseThreshold) {
		return types.ProxyDecision{
			CurrentProxy:        currentProxy,
			CurrentBid:          currentBid,
			SafeMax:             safeMax,
			ShouldIncreaseProxy: true,
			NewProxyMax:         types.Float64Ptr(potential),
			NextBidAmount:       types.Float64Ptr(nextBid),
			MaxBudgetForDomain:  potential,
			ProxyAction:         types.ProxyIncrease,
			Explanation: fmt.Sprintf(
				"PROXY INCREASE OPTIMAL: safe max ($%.2f) exceeds current bid ($%.2f) and the current proxy ($%.2f) is insufficient. Raising proxy to $%.2f; next visible bid will be $%.2f. Cost stays capped at $%.2f.",
				safeMax, currentBid, currentProxy, potential, nextBid, potential),
		}
	}

	return types.ProxyDecision{
		CurrentProxy:        currentProxy,
		CurrentBid:          currentBid,
		SafeMax:             safeMax,
		ShouldIncreaseProxy: false,
		MaxBudgetForDomain:  currentProxy,
		ProxyAction:         types.ProxyMaintain,
		Explanation: fmt.Sprintf(
			"PROXY ADEQUATE: current proxy ($%.2f) already covers the position against bid ($%.2f) within safe max ($%.2f); an increase would buy less than %d increments of headroom. Cost will not exceed $%.2f.",
			currentProxy, currentBid, safeMax, headroomIncrements, currentProxy),
	}
}

// Apply 把代理结论合并进策略决策；accept_loss 无条件覆盖上游策略。
func Apply(ctx types.AuctionContext, strategy types.StrategyDecision) (types.StrategyDecision, types.ProxyDecision) {
	analysis := Analyze(ctx)

	updated := strategy
	updated.ShouldIncreaseProxy = types.BoolPtr(analysis.ShouldIncreaseProxy)
	updated.NextBidAmount = analysis.NextBidAmount
	updated.MaxBudgetForDomain = analysis.MaxBudgetForDomain

	if analysis.ProxyAction == types.ProxyAcceptLoss {
		updated.Strategy = types.StrategyDoNotBid
		updated.RecommendedBidAmount = 0
		if updated.Confidence > 0.5 {
			updated.Confidence = 0.5
		}
		updated.RiskLevel = types.RiskHigh
		updated.Reasoning += " PROXY ANALYSIS OVERRIDE: " + analysis.Explanation
	}
	return updated, analysis
}
