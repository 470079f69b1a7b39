package decision

// 中文说明：
// 提示词构建：system 固定描述角色与决策框架，user 汇总竞拍上下文、
// 财务边界、市场情报、历史上下文与本 thread 的既往轮次。

import (
	"fmt"
	"strings"

	"bidsmith/internal/history"
	"bidsmith/internal/types"
)

const systemPrompt = `# Domain Auction Strategy AI

You are an expert domain auction strategist with deep knowledge of:
- Proxy bidding mechanics across GoDaddy, NameJet, and Dynadot
- Platform-specific rules (GoDaddy's 5-minute extension, minimum increments)
- Bidder psychology and bot detection patterns
- Profit margin optimization and risk management

## Core Principles

1. **Profit First**: Target 60-70% of estimated value for 30%+ profit margins
2. **Safety Ceiling**: Never recommend bids above 80% of estimated value
3. **Platform Awareness**: Respect 5-minute extensions and auto-bidding rules
4. **Opponent Analysis**: Adjust strategy based on bot vs human behavior

## Strategy Options

- proxy_max: Set maximum proxy bid, let platform auto-bid incrementally
- last_minute_snipe: Time bid for final moments to avoid counters
- incremental_test: Small bids to test competition without commitment
- wait_for_closeout: Wait for auction to end with minimal bids
- aggressive_early: Rare, only for must-have domains
- do_not_bid: Walk away when profit impossible

## Platform Rules

**GoDaddy**: 5-minute extension on late bids, $5 minimum increment
**NameJet**: No extensions, $5 increment, fast-paced
**Dynadot**: Variable increments, occasional extensions

## Decision Framework

1. Value tier: high ($1000+) conservative, medium ($100-1000) balanced, low (<$100) aggressive or wait
2. Competition: 0 bidders wait/proxy early; 1-2 proxy max; 3+ snipe or incremental test
3. Bots: prefer sniping to minimize reaction window
4. Time pressure: >1h position strategically, <1h execute, <5min snipe mode (extension aware)`

// SystemPrompt 固定的 system 提示词。
func SystemPrompt() string { return systemPrompt }

var platformNotes = map[types.Platform]string{
	types.PlatformGoDaddy: "5-minute extension on late bids. Snipe timing must account for auto-extensions.",
	types.PlatformNameJet: "No extensions, fast-paced. Immediate execution required.",
	types.PlatformDynadot: "Variable increments, occasional extensions. Monitor closely.",
}

// BuildUserPrompt 汇总本次决策的全部输入。
func BuildUserPrompt(ctx types.AuctionContext, intel types.MarketIntelligence, hist history.Context) string {
	safeMax := types.SafeMax(ctx.EstimatedValue)
	hardCeiling := types.HardCeiling(ctx.EstimatedValue)

	var tierNote string
	switch ctx.Tier() {
	case types.TierHigh:
		tierNote = "Conservative approach, avoid emotional escalation"
	case types.TierMedium:
		tierNote = "Balanced strategy, test competition"
	default:
		tierNote = "Aggressive or wait for closeout"
	}

	note, ok := platformNotes[ctx.Platform]
	if !ok {
		note = "Standard proxy bidding rules"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Auction Context\n\n")
	fmt.Fprintf(&b, "**Domain**: %s\n", ctx.Domain)
	fmt.Fprintf(&b, "**Platform**: %s\n", strings.ToUpper(string(ctx.Platform)))
	fmt.Fprintf(&b, "**Platform Rules**: %s\n\n", note)

	fmt.Fprintf(&b, "**Financials**:\n")
	fmt.Fprintf(&b, "- Estimated Value: $%.2f\n", ctx.EstimatedValue)
	fmt.Fprintf(&b, "- Current Bid: $%.2f\n", ctx.CurrentBid)
	fmt.Fprintf(&b, "- Your Current Proxy: $%.2f (0 = none)\n", ctx.YourCurrentProxy)
	fmt.Fprintf(&b, "- Budget Available: $%.2f\n", ctx.BudgetAvailable)
	fmt.Fprintf(&b, "- Safe Max (70%% of value): $%.2f\n", safeMax)
	fmt.Fprintf(&b, "- Hard Ceiling (80%% of value): $%.2f\n\n", hardCeiling)

	fmt.Fprintf(&b, "**Competition**:\n")
	fmt.Fprintf(&b, "- Active Bidders: %d\n", ctx.NumBidders)
	fmt.Fprintf(&b, "- Hours Remaining: %.1f\n\n", ctx.HoursRemaining)

	fmt.Fprintf(&b, "**Bidder Analysis**:\n")
	fmt.Fprintf(&b, "- Bot Detected: %v\n", ctx.BidderAnalysis.BotDetected)
	fmt.Fprintf(&b, "- Corporate Buyer: %v\n", ctx.BidderAnalysis.CorporateBuyer)
	fmt.Fprintf(&b, "- Aggression Score: %.1f/10\n", ctx.BidderAnalysis.AggressionScore)
	fmt.Fprintf(&b, "- Avg Reaction Time: %.1fs\n\n", ctx.BidderAnalysis.ReactionTimeAvg)

	fmt.Fprintf(&b, "**Value Tier**: %s - %s\n", strings.ToUpper(string(ctx.Tier())), tierNote)

	b.WriteString(renderIntelSection(intel))
	b.WriteString(renderHistorySection(hist))
	b.WriteString(renderPreviousRounds(hist.PreviousRounds))

	b.WriteString(`
## Task

Analyze this auction and recommend the optimal bidding strategy. Consider:

1. **Profit Potential**: Can we achieve 30%+ margin within safe limits?
2. **Competition**: How many bidders and their behavior patterns?
3. **Platform Mechanics**: How do platform rules affect timing?
4. **Risk Assessment**: What's the likelihood of overpaying?
5. **Timing**: When should we act given remaining time?

## Required Output Format

Respond with ONLY a valid JSON object matching this schema:

` + "```json" + `
{
  "strategy": "proxy_max|last_minute_snipe|incremental_test|wait_for_closeout|aggressive_early|do_not_bid",
  "recommended_bid_amount": <float>,
  "confidence": <0.0-1.0>,
  "risk_level": "low|medium|high",
  "reasoning": "<detailed explanation with strategy rationale and profit calculations>"
}
` + "```" + `

**Important**:
- recommended_bid_amount = your proxy maximum (what you set, not next visible bid)
- reasoning = minimum 100 characters explaining your logic
- Stay within safe financial boundaries`)

	return b.String()
}

func renderIntelSection(intel types.MarketIntelligence) string {
	var b strings.Builder
	b.WriteString("\n**Market Intelligence**:\n")

	bidder := intel.Bidder
	switch {
	case bidder.Found:
		fmt.Fprintf(&b, "- Bidder Profile: %d auctions, win rate %.1f%%, cluster=%s, aggressive=%v, sniper=%v\n",
			bidder.TotalAuctions, bidder.WinRate*100, bidder.BehavioralCluster, bidder.IsAggressive, bidder.IsSniper)
	case bidder.SampleSize > 0:
		fmt.Fprintf(&b, "- Bidder Behavior Pattern: cluster=%s, fold probability %.1f%%, avg win rate %.1f%%, samples=%d\n",
			bidder.BehavioralCluster, bidder.FoldProbability*100, bidder.AvgWinRate*100, bidder.SampleSize)
	default:
		b.WriteString("- Bidder: unknown (no exact match, no usable behavior cluster)\n")
	}
	if bidder.CounterStrategy != "" {
		fmt.Fprintf(&b, "- Counter Strategy: %s\n", bidder.CounterStrategy)
	}

	if intel.Domain.Found {
		fmt.Fprintf(&b, "- Domain History (%s): avg final price $%.2f, p50 $%.2f, volatility %.2f, samples=%d, confidence %.2f\n",
			intel.Domain.MatchType, intel.Domain.AvgFinalPrice, intel.Domain.PricePercentiles.P50,
			intel.Domain.Volatility, intel.Domain.SampleSize, intel.Domain.Confidence)
	}
	if intel.Archetype.Found {
		fmt.Fprintf(&b, "- Auction Archetype: %s escalation, sniper dominated=%v, proxy driven=%v\n",
			intel.Archetype.EscalationSpeed, intel.Archetype.SniperDominated, intel.Archetype.ProxyDriven)
	}
	fmt.Fprintf(&b, "- Win Probability: %.1f%%\n", intel.WinProbability*100)
	fmt.Fprintf(&b, "- Expected Value: final price $%.2f, profit $%.2f, risk-adjusted EV $%.2f, ROI %.2f (%s)\n",
		intel.EV.ExpectedFinalPrice, intel.EV.ExpectedProfit, intel.EV.RiskAdjustedEV, intel.EV.ROI, intel.EV.Recommendation)
	fmt.Fprintf(&b, "- Resource Priority: %s (score %.3f)\n", intel.Resource.Priority, intel.Resource.Score)
	return b.String()
}

func renderHistorySection(hist history.Context) string {
	if hist.SimilarCount == 0 && len(hist.StrategyStats) == 0 && !hist.HasBestStrategy {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n**Historical Context**:\n")
	if hist.Insights.HasData {
		fmt.Fprintf(&b, "- Similar Auctions: %d, our win rate %.1f%%\n", hist.Insights.TotalSimilar, hist.Insights.WinRate*100)
		if hist.Insights.AvgFinalPriceRatio > 0 {
			fmt.Fprintf(&b, "- Similar domains typically sold for %.0f%% of estimated value\n", hist.Insights.AvgFinalPriceRatio*100)
		}
	}
	for strategy, stats := range hist.StrategyStats {
		fmt.Fprintf(&b, "- %s: %d uses, win rate %.1f%%\n", strategy, stats.TotalUses, stats.WinRate()*100)
	}
	if hist.HasBestStrategy {
		fmt.Fprintf(&b, "- Historically best strategy for this context: %s\n", hist.BestStrategy)
	}
	if hist.SuggestedMaxRatio > 0 && hist.SuggestedMaxRatio != history.BaseSafeMaxRatio {
		fmt.Fprintf(&b, "- Suggested safe max ratio from history: %.0f%% (advisory; 80%% hard ceiling still applies)\n",
			hist.SuggestedMaxRatio*100)
	}
	return b.String()
}

func renderPreviousRounds(rounds []history.AuctionRound) string {
	if len(rounds) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n**Previous Rounds In This Auction**:\n")
	for _, r := range rounds {
		fmt.Fprintf(&b, "- Round %d: %s at $%.2f (bid was $%.2f) -> %s\n",
			r.RoundNumber, r.StrategyUsed, r.RecommendedBid, r.CurrentBidAtDecision, r.ResultRound)
	}
	return b.String()
}
