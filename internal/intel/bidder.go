package intel

// 中文说明：
// 对手情报两级查询：先按 bidder_id 精确命中，未命中时按实时行为
// （攻击性、反应时间）做聚类匹配。样本不足直接返回 unknown，不给预测。

import (
	"math"

	"bidsmith/internal/types"
)

func (s *Service) lookupBidder(ctx types.AuctionContext) types.BidderIntel {
	tables := s.snapshot()

	if ctx.LastBidderID != "" {
		if p, ok := tables.bidderIndex[ctx.LastBidderID]; ok {
			return exactBidderIntel(p)
		}
	}
	return s.clusterMatch(tables, ctx.BidderAnalysis.AggressionScore, ctx.BidderAnalysis.ReactionTimeAvg)
}

func exactBidderIntel(p *BidderProfile) types.BidderIntel {
	cluster := classifyCluster(p.WinRate, p.LateBidRatio, p.AvgReactionTime, p.Aggression())
	return types.BidderIntel{
		Found:             true,
		BehavioralCluster: cluster,
		SampleSize:        1,
		TotalAuctions:     p.TotalAuctions,
		WinRate:           p.WinRate,
		AvgBidIncrease:    p.AvgBidIncrease,
		LateBidRatio:      p.LateBidRatio,
		AvgReactionTime:   p.AvgReactionTime,
		FoldProbability:   1 - p.WinRate,
		IsAggressive:      p.AvgBidIncrease > 50,
		IsSniper:          p.LateBidRatio > 0.7,
		CounterStrategy:   counterStrategy(cluster, 1-p.WinRate),
	}
}

// clusterMatch 过滤行为相近的历史对手并汇总群体统计。
func (s *Service) clusterMatch(tables *Tables, aggression, reactionTime float64) types.BidderIntel {
	matched := make([]*BidderProfile, 0, 8)
	for i := range tables.Bidders {
		p := &tables.Bidders[i]
		if math.Abs(p.Aggression()-aggression) > s.opts.AggressionTolerance {
			continue
		}
		if math.Abs(p.AvgReactionTime-reactionTime) > s.opts.ReactionToleranceSec {
			continue
		}
		matched = append(matched, p)
	}
	// 回退：仅按攻击性匹配。
	if len(matched) == 0 {
		for i := range tables.Bidders {
			p := &tables.Bidders[i]
			if math.Abs(p.Aggression()-aggression) <= s.opts.AggressionTolerance {
				matched = append(matched, p)
			}
		}
	}
	if len(matched) < s.opts.MinClusterSamples {
		return types.BidderIntel{Found: false, BehavioralCluster: types.ClusterUnknown}
	}

	var sumWin, sumLate, sumReaction, sumAggr float64
	for _, p := range matched {
		sumWin += p.WinRate
		sumLate += p.LateBidRatio
		sumReaction += p.AvgReactionTime
		sumAggr += p.Aggression()
	}
	n := float64(len(matched))
	avgWin := sumWin / n
	avgLate := sumLate / n
	fold := 1 - avgWin
	cluster := classifyCluster(avgWin, avgLate, sumReaction/n, sumAggr/n)

	return types.BidderIntel{
		Found:             false,
		BehavioralCluster: cluster,
		SampleSize:        len(matched),
		AvgWinRate:        avgWin,
		FoldProbability:   fold,
		AvgLateBidRatio:   avgLate,
		IsAggressive:      aggression > 6.0,
		CounterStrategy:   counterStrategy(cluster, fold),
	}
}

// classifyCluster 粗分类：反应极快视为 bot，晚出价占比高视为 sniper，
// 高胜率视为 corporate（职业买家），高攻击性视为 aggressive，其余 casual。
func classifyCluster(winRate, lateRatio, reactionTime, aggression float64) types.BehavioralCluster {
	switch {
	case reactionTime > 0 && reactionTime <= 2.0:
		return types.ClusterBot
	case lateRatio > 0.7:
		return types.ClusterSniper
	case winRate > 0.6:
		return types.ClusterCorporate
	case aggression >= 6.0:
		return types.ClusterAggressive
	default:
		return types.ClusterCasual
	}
}

func counterStrategy(cluster types.BehavioralCluster, foldProb float64) string {
	switch {
	case cluster == types.ClusterCorporate:
		return "Avoid escalation. Set firm cap and be prepared to walk away."
	case cluster == types.ClusterCasual || foldProb > 0.85:
		return "Opponent likely to fold. Set moderate cap and bid confidently."
	case cluster == types.ClusterSniper || cluster == types.ClusterBot:
		return "Counter-snipe in final seconds or use early proxy to discourage."
	default:
		return "Standard competitive approach. Monitor and adjust dynamically."
	}
}
