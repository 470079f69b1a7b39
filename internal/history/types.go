package history

// 中文说明：
// 历史记录领域模型与存储接口。情报/学习侧只拿 Reader，
// 写入侧只拿 Recorder，避免“情报改历史”的环依赖。

import (
	"context"
	"time"

	"bidsmith/internal/types"
)

// Result 竞拍（或单轮）结果。
type Result string

const (
	ResultWon       Result = "won"
	ResultLost      Result = "lost"
	ResultOutbid    Result = "outbid"
	ResultAbandoned Result = "abandoned"
)

// AuctionOutcome 一场竞拍的最终记录，按 auction_id 幂等。
type AuctionOutcome struct {
	AuctionID string
	Domain    string
	Platform  types.Platform
	Timestamp time.Time

	// 决策时刻的上下文切片。
	EstimatedValue           float64
	CurrentBidAtDecision     float64
	FinalPrice               float64
	NumBidders               int
	HoursRemainingAtDecision float64
	BotDetected              bool

	// 当时的决策。
	StrategyUsed   types.Strategy
	RecommendedBid float64
	DecisionSource types.DecisionSource
	Confidence     float64

	// 结果。ProfitMargin 仅在赢下时有值。
	Result       Result
	ProfitMargin *float64
	OpponentHash string

	// 完整上下文快照（入库为 JSON），供相似查询直接返回。
	Context *types.AuctionContext
}

// AuctionRound 同一场竞拍（thread）内的单轮决策记录，按 (thread_id, round_number) 幂等。
type AuctionRound struct {
	ThreadID             string
	RoundNumber          int
	Domain               string
	Platform             types.Platform
	EstimatedValue       float64
	CurrentBidAtDecision float64
	StrategyUsed         types.Strategy
	RecommendedBid       float64
	DecisionSource       types.DecisionSource
	Confidence           float64
	ResultRound          Result
	Timestamp            time.Time
}

// StrategyPerformance (strategy, platform, value_tier) 维度的累计表现。
type StrategyPerformance struct {
	Strategy    types.Strategy
	Platform    types.Platform
	ValueTier   types.ValueTier
	TotalUses   int
	Wins        int
	TotalProfit float64
}

// WinRate 胜率；无样本时为 0。
func (p StrategyPerformance) WinRate() float64 {
	if p.TotalUses == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.TotalUses)
}

// AvgProfitPerWin 每胜平均利润。
func (p StrategyPerformance) AvgProfitPerWin() float64 {
	if p.Wins == 0 {
		return 0
	}
	return p.TotalProfit / float64(p.Wins)
}

// Reader 历史只读视图。
type Reader interface {
	GetSimilar(ctx context.Context, platform types.Platform, valueMin, valueMax float64, limit int) ([]AuctionOutcome, error)
	GetRoundsForThread(ctx context.Context, threadID string) ([]AuctionRound, error)
	GetStrategyStats(ctx context.Context, strategy types.Strategy, platform types.Platform, tier types.ValueTier) (StrategyPerformance, error)
	GetBestStrategy(ctx context.Context, platform types.Platform, tier types.ValueTier, minSamples int) (types.Strategy, bool, error)
}

// Recorder 历史只写视图。
type Recorder interface {
	RecordOutcome(ctx context.Context, outcome AuctionOutcome) error
	RecordRound(ctx context.Context, round AuctionRound) error
}

// Store 完整存储接口。
type Store interface {
	Reader
	Recorder
	Close() error
}
