package gormstore

// GormStore implements the auction history store using Gorm + SQLite.
// 记录按自然键幂等：重复写同一 auction_id 会先回退旧贡献再累计新贡献，
// 策略统计的自增走 SQL 表达式，并发写不丢更新。

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bidsmith/internal/history"
	storemodel "bidsmith/internal/store/model"
	"bidsmith/internal/types"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type GormStore struct {
	db *gorm.DB
}

var _ history.Store = (*GormStore)(nil)

// NewGormStore initializes SQLite-backed storage at the given path.
func NewGormStore(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history store: 存储路径不能为空")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&storemodel.AuctionOutcomeModel{},
		&storemodel.AuctionRoundModel{},
		&storemodel.StrategyPerformanceModel{},
	); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite with a shared cache: a single connection serializes all reads and
	// writes, so concurrent writers queue on the pool instead of failing on table locks.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return &GormStore{db: db}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordOutcome upserts by auction_id and keeps strategy_performance in sync.
func (s *GormStore) RecordOutcome(ctx context.Context, outcome history.AuctionOutcome) error {
	if outcome.AuctionID == "" {
		return fmt.Errorf("record outcome: auction_id 不能为空")
	}
	model, err := outcomeToModel(outcome)
	if err != nil {
		return err
	}
	tier := string(types.TierFor(outcome.EstimatedValue))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同键重写：先回退旧记录对统计表的贡献，保证幂等。
		var prior storemodel.AuctionOutcomeModel
		err := tx.Where("auction_id = ?", outcome.AuctionID).First(&prior).Error
		switch {
		case err == nil:
			if err := applyPerformanceDelta(tx, prior.StrategyUsed, prior.Platform,
				string(types.TierFor(prior.EstimatedValue)), -1, prior); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "auction_id"}},
			DoUpdates: clause.AssignmentColumns(outcomeUpdateColumns),
		}).Create(&model).Error; err != nil {
			return err
		}

		return applyPerformanceDelta(tx, model.StrategyUsed, model.Platform, tier, 1, model)
	})
}

var outcomeUpdateColumns = []string{
	"domain", "platform", "timestamp", "estimated_value", "current_bid_at_decision",
	"final_price", "num_bidders", "hours_remaining_at_decision", "bot_detected",
	"strategy_used", "recommended_bid", "decision_source", "confidence",
	"result", "profit_margin", "opponent_hash", "context_snapshot",
}

// applyPerformanceDelta 以 SQL 表达式增减 (strategy, platform, tier) 的累计值。
func applyPerformanceDelta(tx *gorm.DB, strategy, platform, tier string, sign int, m storemodel.AuctionOutcomeModel) error {
	winInc := 0
	profitInc := 0.0
	if m.Result == string(history.ResultWon) {
		winInc = 1
		if m.ProfitMargin != nil {
			profitInc = *m.ProfitMargin * m.EstimatedValue
		}
	}
	if sign < 0 {
		winInc, profitInc = -winInc, -profitInc
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "strategy"}, {Name: "platform"}, {Name: "value_tier"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_uses":   gorm.Expr("total_uses + ?", sign),
			"wins":         gorm.Expr("wins + ?", winInc),
			"total_profit": gorm.Expr("total_profit + ?", profitInc),
		}),
	}).Create(&storemodel.StrategyPerformanceModel{
		Strategy:    strategy,
		Platform:    platform,
		ValueTier:   tier,
		TotalUses:   sign,
		Wins:        winInc,
		TotalProfit: profitInc,
	}).Error
}

// RecordRound inserts a round record; duplicates on (thread_id, round_number) are ignored.
func (s *GormStore) RecordRound(ctx context.Context, round history.AuctionRound) error {
	if round.ThreadID == "" || round.RoundNumber <= 0 {
		return fmt.Errorf("record round: thread_id/round_number 不合法")
	}
	model := storemodel.AuctionRoundModel{
		ThreadID:             round.ThreadID,
		RoundNumber:          round.RoundNumber,
		Domain:               round.Domain,
		Platform:             string(round.Platform),
		EstimatedValue:       round.EstimatedValue,
		CurrentBidAtDecision: round.CurrentBidAtDecision,
		StrategyUsed:         string(round.StrategyUsed),
		RecommendedBid:       round.RecommendedBid,
		DecisionSource:       string(round.DecisionSource),
		Confidence:           round.Confidence,
		ResultRound:          string(round.ResultRound),
		Timestamp:            round.Timestamp.UTC().Unix(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "thread_id"}, {Name: "round_number"}},
		DoNothing: true,
	}).Create(&model).Error
}

// GetSimilar returns recent outcomes on the platform within the value band.
func (s *GormStore) GetSimilar(ctx context.Context, platform types.Platform, valueMin, valueMax float64, limit int) ([]history.AuctionOutcome, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []storemodel.AuctionOutcomeModel
	err := s.db.WithContext(ctx).
		Where("platform = ? AND estimated_value BETWEEN ? AND ?", string(platform), valueMin, valueMax).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]history.AuctionOutcome, 0, len(models))
	for i := range models {
		out = append(out, modelToOutcome(&models[i]))
	}
	return out, nil
}

// GetRoundsForThread returns all rounds of a thread ordered by round number.
func (s *GormStore) GetRoundsForThread(ctx context.Context, threadID string) ([]history.AuctionRound, error) {
	var models []storemodel.AuctionRoundModel
	err := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("round_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]history.AuctionRound, 0, len(models))
	for _, m := range models {
		out = append(out, history.AuctionRound{
			ThreadID:             m.ThreadID,
			RoundNumber:          m.RoundNumber,
			Domain:               m.Domain,
			Platform:             types.Platform(m.Platform),
			EstimatedValue:       m.EstimatedValue,
			CurrentBidAtDecision: m.CurrentBidAtDecision,
			StrategyUsed:         types.Strategy(m.StrategyUsed),
			RecommendedBid:       m.RecommendedBid,
			DecisionSource:       types.DecisionSource(m.DecisionSource),
			Confidence:           m.Confidence,
			ResultRound:          history.Result(m.ResultRound),
			Timestamp:            time.Unix(m.Timestamp, 0).UTC(),
		})
	}
	return out, nil
}

// GetStrategyStats returns the aggregate row for the key; zero value when absent.
func (s *GormStore) GetStrategyStats(ctx context.Context, strategy types.Strategy, platform types.Platform, tier types.ValueTier) (history.StrategyPerformance, error) {
	stats := history.StrategyPerformance{Strategy: strategy, Platform: platform, ValueTier: tier}
	var m storemodel.StrategyPerformanceModel
	err := s.db.WithContext(ctx).
		Where("strategy = ? AND platform = ? AND value_tier = ?", string(strategy), string(platform), string(tier)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	stats.TotalUses = m.TotalUses
	stats.Wins = m.Wins
	stats.TotalProfit = m.TotalProfit
	return stats, nil
}

// GetBestStrategy returns the highest win-rate strategy meeting the sample threshold.
func (s *GormStore) GetBestStrategy(ctx context.Context, platform types.Platform, tier types.ValueTier, minSamples int) (types.Strategy, bool, error) {
	if minSamples <= 0 {
		minSamples = 5
	}
	var m storemodel.StrategyPerformanceModel
	err := s.db.WithContext(ctx).
		Where("platform = ? AND value_tier = ? AND total_uses >= ?", string(platform), string(tier), minSamples).
		Order("CAST(wins AS REAL) / total_uses DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return types.Strategy(m.Strategy), true, nil
}

func outcomeToModel(o history.AuctionOutcome) (storemodel.AuctionOutcomeModel, error) {
	var snapshot datatypes.JSON
	if o.Context != nil {
		raw, err := json.Marshal(o.Context)
		if err != nil {
			return storemodel.AuctionOutcomeModel{}, fmt.Errorf("序列化上下文快照失败: %w", err)
		}
		snapshot = datatypes.JSON(raw)
	}
	ts := o.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return storemodel.AuctionOutcomeModel{
		AuctionID:                o.AuctionID,
		Domain:                   o.Domain,
		Platform:                 string(o.Platform),
		Timestamp:                ts.UTC().Unix(),
		EstimatedValue:           o.EstimatedValue,
		CurrentBidAtDecision:     o.CurrentBidAtDecision,
		FinalPrice:               o.FinalPrice,
		NumBidders:               o.NumBidders,
		HoursRemainingAtDecision: o.HoursRemainingAtDecision,
		BotDetected:              o.BotDetected,
		StrategyUsed:             string(o.StrategyUsed),
		RecommendedBid:           o.RecommendedBid,
		DecisionSource:           string(o.DecisionSource),
		Confidence:               o.Confidence,
		Result:                   string(o.Result),
		ProfitMargin:             o.ProfitMargin,
		OpponentHash:             o.OpponentHash,
		ContextSnapshot:          snapshot,
	}, nil
}

func modelToOutcome(m *storemodel.AuctionOutcomeModel) history.AuctionOutcome {
	out := history.AuctionOutcome{
		AuctionID:                m.AuctionID,
		Domain:                   m.Domain,
		Platform:                 types.Platform(m.Platform),
		Timestamp:                time.Unix(m.Timestamp, 0).UTC(),
		EstimatedValue:           m.EstimatedValue,
		CurrentBidAtDecision:     m.CurrentBidAtDecision,
		FinalPrice:               m.FinalPrice,
		NumBidders:               m.NumBidders,
		HoursRemainingAtDecision: m.HoursRemainingAtDecision,
		BotDetected:              m.BotDetected,
		StrategyUsed:             types.Strategy(m.StrategyUsed),
		RecommendedBid:           m.RecommendedBid,
		DecisionSource:           types.DecisionSource(m.DecisionSource),
		Confidence:               m.Confidence,
		Result:                   history.Result(m.Result),
		ProfitMargin:             m.ProfitMargin,
		OpponentHash:             m.OpponentHash,
	}
	if len(m.ContextSnapshot) > 0 {
		var snapshot types.AuctionContext
		if err := json.Unmarshal(m.ContextSnapshot, &snapshot); err == nil {
			out.Context = &snapshot
		}
	}
	return out
}
