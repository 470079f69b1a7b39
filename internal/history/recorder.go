package history

// 中文说明：
// 外层轮询器在竞拍结束/单轮结束后调用的记录辅助。
// 利润率只在赢下时计算：(估值 − 成交价) / 估值。

import (
	"context"
	"fmt"
	"time"

	"bidsmith/internal/types"

	"github.com/google/uuid"
)

// Journal 组合读写视图：写结果需要先数已有轮次。
type Journal struct {
	store Store
}

func NewJournal(store Store) *Journal { return &Journal{store: store} }

// RecordOutcome 竞拍收尾后落一条最终记录并更新策略统计。
func (j *Journal) RecordOutcome(ctx context.Context, auction types.AuctionContext, decision types.FinalDecision, result Result, finalPrice float64) error {
	if j == nil || j.store == nil {
		return nil
	}
	var margin *float64
	if result == ResultWon && auction.EstimatedValue > 0 {
		m := (auction.EstimatedValue - finalPrice) / auction.EstimatedValue
		margin = &m
	}
	snapshot := auction
	outcome := AuctionOutcome{
		AuctionID:                auctionID(auction),
		Domain:                   auction.Domain,
		Platform:                 auction.Platform,
		Timestamp:                time.Now().UTC(),
		EstimatedValue:           auction.EstimatedValue,
		CurrentBidAtDecision:     auction.CurrentBid,
		FinalPrice:               finalPrice,
		NumBidders:               auction.NumBidders,
		HoursRemainingAtDecision: auction.HoursRemaining,
		BotDetected:              auction.BidderAnalysis.BotDetected,
		StrategyUsed:             decision.Strategy,
		RecommendedBid:           decision.RecommendedBidAmount,
		DecisionSource:           decision.DecisionSource,
		Confidence:               decision.Confidence,
		Result:                   result,
		ProfitMargin:             margin,
		OpponentHash:             auction.LastBidderID,
		Context:                  &snapshot,
	}
	return j.store.RecordOutcome(ctx, outcome)
}

// RecordRound 单轮结束（通常是被超价）时落一条轮次记录，
// 轮次号 = 该 thread 已有轮次数 + 1。
func (j *Journal) RecordRound(ctx context.Context, auction types.AuctionContext, decision types.FinalDecision, result Result) error {
	if j == nil || j.store == nil || auction.ThreadID == "" {
		return nil
	}
	existing, err := j.store.GetRoundsForThread(ctx, auction.ThreadID)
	if err != nil {
		return fmt.Errorf("查询 thread 轮次失败: %w", err)
	}
	round := AuctionRound{
		ThreadID:             auction.ThreadID,
		RoundNumber:          len(existing) + 1,
		Domain:               auction.Domain,
		Platform:             auction.Platform,
		EstimatedValue:       auction.EstimatedValue,
		CurrentBidAtDecision: auction.CurrentBid,
		StrategyUsed:         decision.Strategy,
		RecommendedBid:       decision.RecommendedBidAmount,
		DecisionSource:       decision.DecisionSource,
		Confidence:           decision.Confidence,
		ResultRound:          result,
		Timestamp:            time.Now().UTC(),
	}
	return j.store.RecordRound(ctx, round)
}

// auctionID 以 thread 为准生成稳定标识；没有 thread 时退化为随机 id。
func auctionID(auction types.AuctionContext) string {
	if auction.ThreadID != "" {
		return auction.ThreadID
	}
	return auction.Domain + "_" + uuid.NewString()
}
