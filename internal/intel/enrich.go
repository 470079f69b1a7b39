package intel

// Enrich 实时决策的主入口：汇总对手/域名/平台三路情报并计算派生评分。
// 失败开放：任何内部问题都降级为 unknown 结果，绝不向上抛错。

import (
	"bidsmith/internal/logger"
	"bidsmith/internal/types"
)

func (s *Service) Enrich(ctx types.AuctionContext) (out types.MarketIntelligence) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("情报富集异常，返回 unknown: %v", r)
			out = Unknown()
		}
	}()

	bidder := s.lookupBidder(ctx)
	domain := s.lookupDomain(ctx.Domain, ctx.EstimatedValue)
	archetype := s.lookupArchetype(ctx.Platform)

	winProb := s.winProbability(ctx, bidder, domain)
	ev := s.expectedValue(ctx, winProb, domain)

	return types.MarketIntelligence{
		Bidder:         bidder,
		Domain:         domain,
		Archetype:      archetype,
		WinProbability: winProb,
		EV:             ev,
		Resource:       s.resourceScore(winProb, ev),
	}
}

// Unknown 全量未命中的中性结果。
func Unknown() types.MarketIntelligence {
	return types.MarketIntelligence{
		Bidder:    types.BidderIntel{Found: false, BehavioralCluster: types.ClusterUnknown},
		Domain:    types.DomainIntel{Found: false, MatchType: types.MatchNone},
		Archetype: types.ArchetypeIntel{Found: false},
		Resource:  types.ResourceScore{Priority: types.PriorityLow},
	}
}
