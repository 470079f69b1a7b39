package intel

// 中文说明：
// 平台档案：优先取平台行，缺失时退化为全表均值。
// 升级速度按平均跳价分档：<$50 慢、>$200 快、其余中等。

import "bidsmith/internal/types"

const (
	slowJumpThreshold = 50.0
	fastJumpThreshold = 200.0

	sniperLateRatio = 0.7
	proxyLateRatio  = 0.3
)

func (s *Service) lookupArchetype(platform types.Platform) types.ArchetypeIntel {
	tables := s.snapshot()
	if len(tables.Archetypes) == 0 {
		return types.ArchetypeIntel{Found: false}
	}

	for i := range tables.Archetypes {
		a := &tables.Archetypes[i]
		if a.Platform == platform {
			return archetypeIntel(a.AvgLateBidRatio, a.AvgBidJump, a.AvgDurationSec)
		}
	}

	// 全表均值兜底。
	var sumLate, sumJump, sumDur float64
	for i := range tables.Archetypes {
		sumLate += tables.Archetypes[i].AvgLateBidRatio
		sumJump += tables.Archetypes[i].AvgBidJump
		sumDur += tables.Archetypes[i].AvgDurationSec
	}
	n := float64(len(tables.Archetypes))
	return archetypeIntel(sumLate/n, sumJump/n, sumDur/n)
}

func archetypeIntel(lateRatio, bidJump, durationSec float64) types.ArchetypeIntel {
	speed := "medium"
	switch {
	case bidJump < slowJumpThreshold:
		speed = "slow"
	case bidJump > fastJumpThreshold:
		speed = "fast"
	}
	return types.ArchetypeIntel{
		Found:           true,
		AvgLateBidRatio: lateRatio,
		AvgBidJump:      bidJump,
		AvgDurationSec:  durationSec,
		EscalationSpeed: speed,
		SniperDominated: lateRatio > sniperLateRatio,
		ProxyDriven:     lateRatio < proxyLateRatio,
	}
}
