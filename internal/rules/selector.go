package rules

// 中文说明：
// 规则兜底策略选择：按价值档位 × 竞拍条件决策树选择，永远成功。
// 推荐金额统一取 min(safe max, 可用预算, 80% 估值)，置信度落在 0.70-0.90。

import (
	"fmt"

	"bidsmith/internal/pkg/moneymath"
	"bidsmith/internal/types"
)

// Selector 确定性策略选择器。
type Selector struct{}

func NewSelector() *Selector { return &Selector{} }

// Select 主入口：路由到档位逻辑。intel 仅用于丰富推理说明，不改变金额。
func (s *Selector) Select(ctx types.AuctionContext, intel types.MarketIntelligence) types.StrategyDecision {
	switch ctx.Tier() {
	case types.TierHigh:
		return s.highValue(ctx, intel)
	case types.TierMedium:
		return s.mediumValue(ctx, intel)
	default:
		return s.lowValue(ctx, intel)
	}
}

// recommendedAmount 规则层的统一出价上限。
func recommendedAmount(ctx types.AuctionContext) float64 {
	return moneymath.Min(
		types.SafeMax(ctx.EstimatedValue),
		ctx.BudgetAvailable,
		types.HardCeiling(ctx.EstimatedValue),
	)
}

func (s *Selector) highValue(ctx types.AuctionContext, intel types.MarketIntelligence) types.StrategyDecision {
	amount := recommendedAmount(ctx)

	if ctx.BidderAnalysis.BotDetected {
		return decision(types.StrategyLastMinuteSnipe, amount, 0.80, types.RiskMedium, fmt.Sprintf(
			"HIGH-VALUE BOT COUNTER: bot detected with aggression %.1f/10 on %s. Last-minute snipe minimizes the bot's reaction window while the strategy caps spend at $%.2f. Bots dominate rapid proxy wars but handle unpredictable timing poorly, so sniping protects profit against automated competition.%s",
			ctx.BidderAnalysis.AggressionScore, ctx.Platform, amount, intelNote(intel)))
	}
	if ctx.NumBidders >= 3 {
		return decision(types.StrategyLastMinuteSnipe, amount, 0.70, types.RiskHigh, fmt.Sprintf(
			"HIGH-VALUE COMPETITION: %d bidders create escalation risk on a $%.2f domain. Sniping avoids feeding the bidding war while the $%.2f cap keeps the profit margin protected. Conservative timing also respects %s platform rules.%s",
			ctx.NumBidders, ctx.EstimatedValue, amount, ctx.Platform, intelNote(intel)))
	}
	if ctx.NumBidders >= 1 {
		return decision(types.StrategyProxyMax, amount, 0.75, types.RiskMedium, fmt.Sprintf(
			"HIGH-VALUE BALANCED: %d bidder(s) present on a $%.2f domain. A conservative proxy max of $%.2f allows participation while the platform handles incremental competition, protecting against emotional escalation and preserving profit.",
			ctx.NumBidders, ctx.EstimatedValue, amount))
	}
	if ctx.HoursRemaining < 1.0 {
		return decision(types.StrategyWaitForCloseout, amount, 0.85, types.RiskLow, fmt.Sprintf(
			"HIGH-VALUE CONSERVATIVE: no bidders with under an hour remaining on a $%.2f domain. Waiting for closeout minimizes competition risk; the $%.2f budget cap stays ready if late interest appears. Premature bidding would only attract attention and compress profit.",
			ctx.EstimatedValue, amount))
	}
	return decision(types.StrategyProxyMax, amount, 0.75, types.RiskMedium, fmt.Sprintf(
		"HIGH-VALUE EARLY POSITION: no competition yet on a $%.2f domain with %.1f hours left. Setting proxy max at $%.2f secures position early while the cap protects the profit margin against any later bidding war.",
		ctx.EstimatedValue, ctx.HoursRemaining, amount))
}

func (s *Selector) mediumValue(ctx types.AuctionContext, intel types.MarketIntelligence) types.StrategyDecision {
	amount := recommendedAmount(ctx)

	// GoDaddy 晚段狙击要考虑 5 分钟延时规则。
	if ctx.Platform == types.PlatformGoDaddy && ctx.HoursRemaining < 1.0 {
		return decision(types.StrategyLastMinuteSnipe, amount, 0.80, types.RiskMedium, fmt.Sprintf(
			"MEDIUM-VALUE GODADDY TIMING: under an hour remains on a $%.2f domain. Snipe timing respects the 5-minute extension rule to avoid triggering auto-extensions, with spend capped at $%.2f to keep the profit margin intact against late competition.",
			ctx.EstimatedValue, amount))
	}
	if ctx.NumBidders >= 3 {
		return decision(types.StrategyIncrementalTest, amount, 0.70, types.RiskMedium, fmt.Sprintf(
			"MEDIUM-VALUE COMPETITION: %d bidders signal real interest in this $%.2f domain. Incremental testing gauges the competition without overcommitting; escalation stays bounded by the $%.2f cap so profit and risk remain controlled.%s",
			ctx.NumBidders, ctx.EstimatedValue, amount, intelNote(intel)))
	}
	return decision(types.StrategyProxyMax, amount, 0.75, types.RiskMedium, fmt.Sprintf(
		"MEDIUM-VALUE BALANCED: %d bidder(s) on a $%.2f domain. Proxy max at $%.2f lets %s auto-bidding absorb incremental competition while the cap protects profit against strategy drift.",
		ctx.NumBidders, ctx.EstimatedValue, amount, ctx.Platform))
}

func (s *Selector) lowValue(ctx types.AuctionContext, intel types.MarketIntelligence) types.StrategyDecision {
	amount := recommendedAmount(ctx)

	if ctx.NumBidders == 0 {
		return decision(types.StrategyWaitForCloseout, amount, 0.90, types.RiskLow, fmt.Sprintf(
			"LOW-VALUE CLOSEOUT: no bidders on this $%.2f domain. Waiting for closeout maximizes profit potential at zero competition risk; $%.2f stays reserved as the cap in case interest appears late in the auction.",
			ctx.EstimatedValue, amount))
	}
	return decision(types.StrategyIncrementalTest, amount, 0.70, types.RiskLow, fmt.Sprintf(
		"LOW-VALUE TESTING: %d bidder(s) on a $%.2f domain. Incremental testing probes the competition cheaply; low-value domains tolerate aggressive probing while the $%.2f cap keeps risk and spend trivial relative to budget.%s",
		ctx.NumBidders, ctx.EstimatedValue, amount, intelNote(intel)))
}

func decision(strategy types.Strategy, amount, confidence float64, risk types.RiskLevel, reasoning string) types.StrategyDecision {
	return types.StrategyDecision{
		Strategy:             strategy,
		RecommendedBidAmount: amount,
		Confidence:           confidence,
		RiskLevel:            risk,
		Reasoning:            reasoning,
		MaxBudgetForDomain:   amount,
	}
}

// intelNote 把聚类反制建议附到推理文本尾部（若有）。
func intelNote(intel types.MarketIntelligence) string {
	if intel.Bidder.CounterStrategy == "" || intel.Bidder.BehavioralCluster == types.ClusterUnknown {
		return ""
	}
	return fmt.Sprintf(" Opponent cluster %q: %s", intel.Bidder.BehavioralCluster, intel.Bidder.CounterStrategy)
}
