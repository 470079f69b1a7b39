package model

import "gorm.io/datatypes"

// AuctionOutcomeModel maps to 'auction_outcomes'. auction_id 幂等键。
type AuctionOutcomeModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	AuctionID string `gorm:"column:auction_id;uniqueIndex"`
	Domain    string `gorm:"column:domain;index"`
	Platform  string `gorm:"column:platform;index:idx_platform_value"`
	Timestamp int64  `gorm:"column:timestamp;index"`

	EstimatedValue           float64 `gorm:"column:estimated_value;index:idx_platform_value"`
	CurrentBidAtDecision     float64 `gorm:"column:current_bid_at_decision"`
	FinalPrice               float64 `gorm:"column:final_price"`
	NumBidders               int     `gorm:"column:num_bidders"`
	HoursRemainingAtDecision float64 `gorm:"column:hours_remaining_at_decision"`
	BotDetected              bool    `gorm:"column:bot_detected"`

	StrategyUsed   string  `gorm:"column:strategy_used"`
	RecommendedBid float64 `gorm:"column:recommended_bid"`
	DecisionSource string  `gorm:"column:decision_source"`
	Confidence     float64 `gorm:"column:confidence"`

	Result       string   `gorm:"column:result"`
	ProfitMargin *float64 `gorm:"column:profit_margin"`
	OpponentHash string   `gorm:"column:opponent_hash"`

	ContextSnapshot datatypes.JSON `gorm:"column:context_snapshot"`
}

func (AuctionOutcomeModel) TableName() string { return "auction_outcomes" }

// AuctionRoundModel maps to 'auction_rounds'。(thread_id, round_number) 唯一。
type AuctionRoundModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	ThreadID    string `gorm:"column:thread_id;uniqueIndex:idx_thread_round"`
	RoundNumber int    `gorm:"column:round_number;uniqueIndex:idx_thread_round"`
	Domain      string `gorm:"column:domain"`
	Platform    string `gorm:"column:platform"`

	EstimatedValue       float64 `gorm:"column:estimated_value"`
	CurrentBidAtDecision float64 `gorm:"column:current_bid_at_decision"`
	StrategyUsed         string  `gorm:"column:strategy_used"`
	RecommendedBid       float64 `gorm:"column:recommended_bid"`
	DecisionSource       string  `gorm:"column:decision_source"`
	Confidence           float64 `gorm:"column:confidence"`
	ResultRound          string  `gorm:"column:result_round"`
	Timestamp            int64   `gorm:"column:timestamp"`
}

func (AuctionRoundModel) TableName() string { return "auction_rounds" }

// StrategyPerformanceModel maps to 'strategy_performance'。
// (strategy, platform, value_tier) 唯一，计数走表达式自增，避免并发丢更新。
type StrategyPerformanceModel struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	Strategy    string  `gorm:"column:strategy;uniqueIndex:idx_strategy_key"`
	Platform    string  `gorm:"column:platform;uniqueIndex:idx_strategy_key"`
	ValueTier   string  `gorm:"column:value_tier;uniqueIndex:idx_strategy_key"`
	TotalUses   int     `gorm:"column:total_uses"`
	Wins        int     `gorm:"column:wins"`
	TotalProfit float64 `gorm:"column:total_profit"`
}

func (StrategyPerformanceModel) TableName() string { return "strategy_performance" }
