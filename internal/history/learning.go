package history

// 中文说明：
// 从历史数据提炼给推理端看的上下文：相似竞拍洞察、策略表现、
// 历史最优策略，以及一个仅供参考的动态 safe max 比例建议。
// 建议永远不会覆盖 0.70/0.80 两个硬上限。

import (
	"context"
	"fmt"

	"bidsmith/internal/types"
)

const (
	// BaseSafeMaxRatio 动态建议的基准，与规则层的 safe max 一致。
	BaseSafeMaxRatio = types.SafeMaxRatio

	dynamicRatioFloor = 0.55
	dynamicRatioCeil  = 0.80

	similarValueBand = 0.30
)

// Insights 相似竞拍的汇总洞察。
type Insights struct {
	HasData            bool
	TotalSimilar       int
	WinRate            float64
	AvgFinalPriceRatio float64
	WinningStrategies  map[types.Strategy]int
}

// Context 提供给提示词构建器的历史上下文。
type Context struct {
	ValueTier         types.ValueTier
	SimilarCount      int
	Insights          Insights
	StrategyStats     map[types.Strategy]StrategyPerformance
	BestStrategy      types.Strategy
	HasBestStrategy   bool
	SuggestedMaxRatio float64
	PreviousRounds    []AuctionRound
}

// Learning 历史学习层，只依赖 Reader。
type Learning struct {
	reader       Reader
	minSamples   int
	similarLimit int
}

func NewLearning(reader Reader, minSamples, similarLimit int) *Learning {
	if minSamples <= 0 {
		minSamples = 5
	}
	if similarLimit <= 0 {
		similarLimit = 10
	}
	return &Learning{reader: reader, minSamples: minSamples, similarLimit: similarLimit}
}

// HistoricalContext 汇总当前竞拍可用的全部历史信号。
// 任一查询失败都按“无数据”处理，不中断决策。
func (l *Learning) HistoricalContext(ctx context.Context, auction types.AuctionContext) (Context, error) {
	if l == nil || l.reader == nil {
		return Context{ValueTier: auction.Tier(), SuggestedMaxRatio: BaseSafeMaxRatio}, nil
	}
	tier := auction.Tier()
	out := Context{
		ValueTier:         tier,
		StrategyStats:     make(map[types.Strategy]StrategyPerformance),
		SuggestedMaxRatio: BaseSafeMaxRatio,
	}

	band := auction.EstimatedValue * similarValueBand
	similar, err := l.reader.GetSimilar(ctx, auction.Platform, auction.EstimatedValue-band, auction.EstimatedValue+band, l.similarLimit)
	if err != nil {
		return out, fmt.Errorf("查询相似竞拍失败: %w", err)
	}
	out.SimilarCount = len(similar)
	out.Insights = calculateInsights(similar)
	out.SuggestedMaxRatio = suggestDynamicRatio(out.Insights)

	for _, strategy := range types.AllStrategies() {
		if strategy == types.StrategyDoNotBid {
			continue
		}
		stats, err := l.reader.GetStrategyStats(ctx, strategy, auction.Platform, tier)
		if err != nil {
			continue
		}
		if stats.TotalUses > 0 {
			out.StrategyStats[strategy] = stats
		}
	}

	if best, ok, err := l.reader.GetBestStrategy(ctx, auction.Platform, tier, l.minSamples); err == nil && ok {
		out.BestStrategy = best
		out.HasBestStrategy = true
	}

	if auction.ThreadID != "" {
		if rounds, err := l.reader.GetRoundsForThread(ctx, auction.ThreadID); err == nil {
			out.PreviousRounds = rounds
		}
	}
	return out, nil
}

func calculateInsights(outcomes []AuctionOutcome) Insights {
	if len(outcomes) == 0 {
		return Insights{}
	}
	ins := Insights{
		HasData:           true,
		TotalSimilar:      len(outcomes),
		WinningStrategies: make(map[types.Strategy]int),
	}
	var wins int
	var ratioSum float64
	var ratioCount int
	for _, o := range outcomes {
		if o.Result == ResultWon {
			wins++
			ins.WinningStrategies[o.StrategyUsed]++
		}
		if o.FinalPrice > 0 && o.EstimatedValue > 0 {
			ratioSum += o.FinalPrice / o.EstimatedValue
			ratioCount++
		}
	}
	ins.WinRate = float64(wins) / float64(len(outcomes))
	if ratioCount > 0 {
		ins.AvgFinalPriceRatio = ratioSum / float64(ratioCount)
	}
	return ins
}

// suggestDynamicRatio 依据相似竞拍的成交价比例与历史胜率微调 safe max 建议，
// 夹在 [0.55, 0.80]。仅作为提示词参考。
func suggestDynamicRatio(ins Insights) float64 {
	ratio := BaseSafeMaxRatio
	if !ins.HasData {
		return ratio
	}
	if ins.AvgFinalPriceRatio > 0 {
		switch {
		case ins.AvgFinalPriceRatio < 0.60:
			ratio -= 0.05
		case ins.AvgFinalPriceRatio > 0.75:
			ratio += 0.03
		}
	}
	switch {
	case ins.WinRate < 0.3:
		ratio += 0.05
	case ins.WinRate > 0.8:
		ratio -= 0.03
	}
	if ratio < dynamicRatioFloor {
		return dynamicRatioFloor
	}
	if ratio > dynamicRatioCeil {
		return dynamicRatioCeil
	}
	return ratio
}
