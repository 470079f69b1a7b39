package intel

// 中文说明：
// 域名情报四级回退：精确域名 → 同 TLD 模式 → 估值相近模式 → 平台均值。
// 命中层级写入 MatchType。TLD 模式与估值模式的置信度按 √(样本/50) 衰减并封顶 0.75；
// 平台均值层固定为 0.30。

import (
	"math"
	"strings"

	"bidsmith/internal/types"
)

const (
	exactDomainConfidence = 0.95
	patternConfidenceCap  = 0.75
	platformAvgConfidence = 0.30
	valueTierBandRatio    = 0.30
)

func (s *Service) lookupDomain(domain string, estimatedValue float64) types.DomainIntel {
	tables := s.snapshot()

	// Tier 1: 精确命中。
	if d, ok := tables.domainIndex[strings.ToLower(strings.TrimSpace(domain))]; ok {
		return types.DomainIntel{
			Found:         true,
			MatchType:     types.MatchExact,
			AvgFinalPrice: d.AvgFinalPrice,
			PricePercentiles: types.PricePercentiles{
				P25: d.P25, P50: d.P50, P75: d.P75, P90: d.P90,
			},
			Volatility: d.Volatility,
			SampleSize: maxInt(d.SampleSize, 1),
			Confidence: exactDomainConfidence,
		}
	}

	// Tier 2: TLD 模式。
	if intel, ok := tldPattern(tables, domain); ok {
		return intel
	}

	// Tier 3: 估值相近模式。
	if estimatedValue > 0 {
		if intel, ok := valueTierPattern(tables, estimatedValue); ok {
			return intel
		}
	}

	// Tier 4: 平台均值兜底。
	if len(tables.Domains) > 0 {
		var sumPrice, sumVol float64
		for i := range tables.Domains {
			sumPrice += tables.Domains[i].AvgFinalPrice
			sumVol += tables.Domains[i].Volatility
		}
		n := float64(len(tables.Domains))
		return types.DomainIntel{
			Found:         true,
			MatchType:     types.MatchPlatformAvg,
			AvgFinalPrice: sumPrice / n,
			Volatility:    sumVol / n,
			SampleSize:    len(tables.Domains),
			Confidence:    platformAvgConfidence,
		}
	}

	return types.DomainIntel{Found: false, MatchType: types.MatchNone}
}

func tldPattern(tables *Tables, domain string) (types.DomainIntel, bool) {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 {
		return types.DomainIntel{}, false
	}
	tld := strings.ToLower(domain[idx:])

	var prices []float64
	var sumVol float64
	for i := range tables.Domains {
		d := &tables.Domains[i]
		if strings.HasSuffix(strings.ToLower(d.Domain), tld) {
			prices = append(prices, d.AvgFinalPrice)
			sumVol += d.Volatility
		}
	}
	if len(prices) == 0 {
		return types.DomainIntel{}, false
	}
	sorted := sortedCopy(prices)
	n := float64(len(prices))
	return types.DomainIntel{
		Found:         true,
		MatchType:     types.MatchTLDPattern,
		AvgFinalPrice: mean(prices),
		PricePercentiles: types.PricePercentiles{
			P25: percentile(sorted, 0.25),
			P50: percentile(sorted, 0.50),
			P75: percentile(sorted, 0.75),
			P90: percentile(sorted, 0.90),
		},
		Volatility: sumVol / n,
		SampleSize: len(prices),
		Confidence: patternConfidence(len(prices)),
	}, true
}

func valueTierPattern(tables *Tables, estimatedValue float64) (types.DomainIntel, bool) {
	lower := estimatedValue * (1 - valueTierBandRatio)
	upper := estimatedValue * (1 + valueTierBandRatio)

	var prices []float64
	var sumVol float64
	for i := range tables.Domains {
		d := &tables.Domains[i]
		if d.AvgFinalPrice >= lower && d.AvgFinalPrice <= upper {
			prices = append(prices, d.AvgFinalPrice)
			sumVol += d.Volatility
		}
	}
	if len(prices) == 0 {
		return types.DomainIntel{}, false
	}
	sorted := sortedCopy(prices)
	return types.DomainIntel{
		Found:         true,
		MatchType:     types.MatchValueTier,
		AvgFinalPrice: mean(prices),
		PricePercentiles: types.PricePercentiles{
			P25: percentile(sorted, 0.25),
			P50: percentile(sorted, 0.50),
			P75: percentile(sorted, 0.75),
			P90: percentile(sorted, 0.90),
		},
		Volatility: sumVol / float64(len(prices)),
		SampleSize: len(prices),
		Confidence: patternConfidence(len(prices)),
	}, true
}

// patternConfidence 按样本量衰减：√(n/50)，封顶 0.75。
func patternConfidence(sampleSize int) float64 {
	c := math.Sqrt(float64(sampleSize) / 50.0)
	if c > patternConfidenceCap {
		return patternConfidenceCap
	}
	return c
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
