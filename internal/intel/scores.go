package intel

// 中文说明：
// 派生评分：胜率估计、期望价值、资源优先级。全部是纯函数，
// 只依赖上下文与各级查询结果，缺失信号按中性值处理。

import (
	"bidsmith/internal/types"
)

func (s *Service) winProbability(ctx types.AuctionContext, bidder types.BidderIntel, domain types.DomainIntel) float64 {
	// 竞争基线。
	var prob float64
	switch {
	case ctx.NumBidders == 0:
		prob = 0.95
	case ctx.NumBidders == 1:
		prob = 0.70
	case ctx.NumBidders == 2:
		prob = 0.50
	default:
		prob = 0.30
	}

	// 对手强度：精确画像的胜率反向压低我们的胜率。
	if bidder.Found {
		prob *= 1 - bidder.WinRate*0.5
	}

	// 弃赛倾向：聚类给出的 fold probability 偏离 0.5 的部分做加减。
	if bidder.SampleSize >= s.opts.MinClusterSamples || bidder.Found {
		prob += (bidder.FoldProbability - 0.5) * 0.2
	}

	// 预算充足度：预算低于 safe max 时线性压缩。
	safeMax := types.SafeMax(ctx.EstimatedValue)
	if safeMax > 0 {
		ratio := ctx.BudgetAvailable / safeMax
		if ratio > 1 {
			ratio = 1
		}
		prob *= 0.5 + 0.5*ratio
	}

	// 波动性惩罚。
	prob *= 1 - domain.Volatility*0.5

	if prob < 0 {
		return 0
	}
	if prob > 1 {
		return 1
	}
	return prob
}

func (s *Service) expectedValue(ctx types.AuctionContext, winProb float64, domain types.DomainIntel) types.ExpectedValueAnalysis {
	// 期望成交价：优先域名中位数，其次命中均值，最后按估值 65% 兜底。
	var expectedFinal float64
	switch {
	case domain.Found && domain.PricePercentiles.P50 > 0:
		expectedFinal = domain.PricePercentiles.P50
	case domain.Found && domain.AvgFinalPrice > 0:
		expectedFinal = domain.AvgFinalPrice
	default:
		expectedFinal = ctx.EstimatedValue * 0.65
	}

	expectedProfit := ctx.EstimatedValue - expectedFinal
	var expectedMargin float64
	if ctx.EstimatedValue > 0 {
		expectedMargin = expectedProfit / ctx.EstimatedValue
	}

	ev := winProb * expectedProfit
	riskAdjusted := ev * (1 - domain.Volatility*0.5)
	var roi float64
	if expectedFinal > 0 {
		roi = riskAdjusted / expectedFinal
	}

	recommendation := "WEAK_BID"
	switch {
	case roi > 1.5:
		recommendation = "STRONG_BID"
	case roi > 0.8:
		recommendation = "MODERATE_BID"
	}

	return types.ExpectedValueAnalysis{
		ExpectedFinalPrice: expectedFinal,
		ExpectedProfit:     expectedProfit,
		ExpectedMargin:     expectedMargin,
		ExpectedValue:      ev,
		RiskAdjustedEV:     riskAdjusted,
		ROI:                roi,
		Recommendation:     recommendation,
	}
}

func (s *Service) resourceScore(winProb float64, ev types.ExpectedValueAnalysis) types.ResourceScore {
	score := winProb * ev.ExpectedMargin * (1 + ev.ROI)
	if score < 0 {
		score = 0
	}
	priority := types.PriorityLow
	switch {
	case score > s.opts.ResourceHighCutoff:
		priority = types.PriorityHigh
	case score >= s.opts.ResourceMediumCutoff:
		priority = types.PriorityMedium
	}
	return types.ResourceScore{Score: score, Priority: priority}
}
