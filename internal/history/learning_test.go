package history

import (
	"context"
	"testing"

	"bidsmith/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) GetSimilar(ctx context.Context, platform types.Platform, valueMin, valueMax float64, limit int) ([]AuctionOutcome, error) {
	args := m.Called(ctx, platform, valueMin, valueMax, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AuctionOutcome), args.Error(1)
}

func (m *MockReader) GetRoundsForThread(ctx context.Context, threadID string) ([]AuctionRound, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AuctionRound), args.Error(1)
}

func (m *MockReader) GetStrategyStats(ctx context.Context, strategy types.Strategy, platform types.Platform, tier types.ValueTier) (StrategyPerformance, error) {
	args := m.Called(ctx, strategy, platform, tier)
	return args.Get(0).(StrategyPerformance), args.Error(1)
}

func (m *MockReader) GetBestStrategy(ctx context.Context, platform types.Platform, tier types.ValueTier, minSamples int) (types.Strategy, bool, error) {
	args := m.Called(ctx, platform, tier, minSamples)
	return args.Get(0).(types.Strategy), args.Bool(1), args.Error(2)
}

func sampleAuction() types.AuctionContext {
	return types.AuctionContext{
		Domain:         "example.com",
		Platform:       types.PlatformGoDaddy,
		EstimatedValue: 500,
		ThreadID:       "thread-1",
	}
}

func TestHistoricalContext(t *testing.T) {
	reader := new(MockReader)
	outcomes := []AuctionOutcome{
		{Result: ResultWon, StrategyUsed: types.StrategyProxyMax, FinalPrice: 300, EstimatedValue: 500},
		{Result: ResultLost, StrategyUsed: types.StrategyLastMinuteSnipe, FinalPrice: 450, EstimatedValue: 500},
	}
	reader.On("GetSimilar", mock.Anything, types.PlatformGoDaddy, 350.0, 650.0, 10).Return(outcomes, nil)
	reader.On("GetStrategyStats", mock.Anything, types.StrategyProxyMax, types.PlatformGoDaddy, types.TierMedium).
		Return(StrategyPerformance{Strategy: types.StrategyProxyMax, TotalUses: 8, Wins: 6}, nil)
	reader.On("GetStrategyStats", mock.Anything, mock.Anything, types.PlatformGoDaddy, types.TierMedium).
		Return(StrategyPerformance{}, nil)
	reader.On("GetBestStrategy", mock.Anything, types.PlatformGoDaddy, types.TierMedium, 5).
		Return(types.StrategyProxyMax, true, nil)
	reader.On("GetRoundsForThread", mock.Anything, "thread-1").
		Return([]AuctionRound{{ThreadID: "thread-1", RoundNumber: 1, ResultRound: ResultOutbid}}, nil)

	learning := NewLearning(reader, 5, 10)
	hist, err := learning.HistoricalContext(context.Background(), sampleAuction())
	require.NoError(t, err)

	assert.Equal(t, types.TierMedium, hist.ValueTier)
	assert.Equal(t, 2, hist.SimilarCount)
	assert.True(t, hist.Insights.HasData)
	assert.InDelta(t, 0.5, hist.Insights.WinRate, 1e-9)
	assert.InDelta(t, 0.75, hist.Insights.AvgFinalPriceRatio, 1e-9)
	assert.Equal(t, 1, hist.Insights.WinningStrategies[types.StrategyProxyMax])
	assert.Equal(t, 8, hist.StrategyStats[types.StrategyProxyMax].TotalUses)
	assert.True(t, hist.HasBestStrategy)
	assert.Equal(t, types.StrategyProxyMax, hist.BestStrategy)
	assert.Len(t, hist.PreviousRounds, 1)
}

func TestHistoricalContextNoReader(t *testing.T) {
	var learning *Learning
	hist, err := learning.HistoricalContext(context.Background(), sampleAuction())
	require.NoError(t, err)
	assert.Equal(t, BaseSafeMaxRatio, hist.SuggestedMaxRatio)
	assert.Zero(t, hist.SimilarCount)
}

func TestSuggestDynamicRatioClamped(t *testing.T) {
	// 成交价比例低 + 高胜率：0.70 - 0.05 - 0.03 = 0.62。
	ratio := suggestDynamicRatio(Insights{HasData: true, AvgFinalPriceRatio: 0.5, WinRate: 0.9})
	assert.InDelta(t, 0.62, ratio, 1e-9)

	// 成交价比例高 + 低胜率：0.70 + 0.03 + 0.05 = 0.78。
	ratio = suggestDynamicRatio(Insights{HasData: true, AvgFinalPriceRatio: 0.8, WinRate: 0.1})
	assert.InDelta(t, 0.78, ratio, 1e-9)

	// 无数据保持基准。
	assert.Equal(t, BaseSafeMaxRatio, suggestDynamicRatio(Insights{}))
}

func TestWinRateHelpers(t *testing.T) {
	p := StrategyPerformance{TotalUses: 10, Wins: 4, TotalProfit: 200}
	assert.InDelta(t, 0.4, p.WinRate(), 1e-9)
	assert.InDelta(t, 50.0, p.AvgProfitPerWin(), 1e-9)
	assert.Zero(t, StrategyPerformance{}.WinRate())
}
