package types

// 中文说明：
// 市场情报富集结果。所有查询都带多级回退，字段可能缺失，
// 下游必须容忍 Found=false / 置信度偏低的情况。

// BehavioralCluster 对手行为聚类标签。
type BehavioralCluster string

const (
	ClusterCasual     BehavioralCluster = "casual"
	ClusterAggressive BehavioralCluster = "aggressive"
	ClusterSniper     BehavioralCluster = "sniper"
	ClusterBot        BehavioralCluster = "bot"
	ClusterCorporate  BehavioralCluster = "corporate"
	ClusterUnknown    BehavioralCluster = "unknown"
)

// DomainMatchType 域名情报命中层级。
type DomainMatchType string

const (
	MatchExact       DomainMatchType = "exact"
	MatchTLDPattern  DomainMatchType = "tld_pattern"
	MatchValueTier   DomainMatchType = "value_tier_pattern"
	MatchPlatformAvg DomainMatchType = "platform_avg"
	MatchNone        DomainMatchType = "none"
)

// ResourcePriority 资源分配优先级。
type ResourcePriority string

const (
	PriorityHigh   ResourcePriority = "HIGH"
	PriorityMedium ResourcePriority = "MEDIUM"
	PriorityLow    ResourcePriority = "LOW"
)

// BidderIntel 对手情报。Found=true 表示精确命中；否则为聚类匹配结果。
type BidderIntel struct {
	Found             bool              `json:"found"`
	BehavioralCluster BehavioralCluster `json:"behavioral_cluster"`
	SampleSize        int               `json:"sample_size"`

	// 精确命中时的个体画像。
	TotalAuctions   int     `json:"total_auctions,omitempty"`
	WinRate         float64 `json:"win_rate,omitempty"`
	AvgBidIncrease  float64 `json:"avg_bid_increase,omitempty"`
	LateBidRatio    float64 `json:"late_bid_ratio,omitempty"`
	AvgReactionTime float64 `json:"avg_reaction_time,omitempty"`

	// 聚类匹配时的群体统计。
	AvgWinRate      float64 `json:"avg_win_rate,omitempty"`
	FoldProbability float64 `json:"fold_probability,omitempty"`
	AvgLateBidRatio float64 `json:"avg_late_bid_ratio,omitempty"`

	IsAggressive    bool   `json:"is_aggressive,omitempty"`
	IsSniper        bool   `json:"is_sniper,omitempty"`
	CounterStrategy string `json:"counter_strategy,omitempty"`
}

// PricePercentiles 域名成交价分位。
type PricePercentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// DomainIntel 域名情报，MatchType 记录命中的回退层级。
type DomainIntel struct {
	Found            bool             `json:"found"`
	MatchType        DomainMatchType  `json:"match_type"`
	AvgFinalPrice    float64          `json:"avg_final_price"`
	PricePercentiles PricePercentiles `json:"price_percentiles"`
	Volatility       float64          `json:"volatility"`
	SampleSize       int              `json:"sample_size"`
	Confidence       float64          `json:"confidence"` // 0-1
}

// ArchetypeIntel 平台级竞拍宏观模式。
type ArchetypeIntel struct {
	Found           bool    `json:"found"`
	AvgLateBidRatio float64 `json:"avg_late_bid_ratio"`
	AvgBidJump      float64 `json:"avg_bid_jump"`
	AvgDurationSec  float64 `json:"avg_duration_sec"`
	EscalationSpeed string  `json:"escalation_speed"` // slow / medium / fast
	SniperDominated bool    `json:"sniper_dominated"`
	ProxyDriven     bool    `json:"proxy_driven"`
}

// ExpectedValueAnalysis 期望价值分析。
type ExpectedValueAnalysis struct {
	ExpectedFinalPrice float64 `json:"expected_final_price"`
	ExpectedProfit     float64 `json:"expected_profit"`
	ExpectedMargin     float64 `json:"expected_margin"`
	ExpectedValue      float64 `json:"expected_value"`
	RiskAdjustedEV     float64 `json:"risk_adjusted_ev"`
	ROI                float64 `json:"roi"`
	Recommendation     string  `json:"recommendation"` // STRONG_BID / MODERATE_BID / WEAK_BID
}

// ResourceScore 资源优先级评分：win_probability · expected_margin · (1 + roi)。
type ResourceScore struct {
	Score    float64          `json:"score"`
	Priority ResourcePriority `json:"priority"`
}

// MarketIntelligence enrich() 的汇总输出。
type MarketIntelligence struct {
	Bidder         BidderIntel           `json:"bidder"`
	Domain         DomainIntel           `json:"domain"`
	Archetype      ArchetypeIntel        `json:"archetype"`
	WinProbability float64               `json:"win_probability"` // 0-1
	EV             ExpectedValueAnalysis `json:"expected_value_analysis"`
	Resource       ResourceScore         `json:"resource_score"`
}
