package strategist

// 中文说明：
// 决策编排器：情报 → 安全 → 推理 → 校验 →（兜底）→ 代理 → 汇总。
// 每次 decide() 新建状态，各层只写自己契约内的字段；
// 错误从不越过 decide() 边界，panic 在此兜住并转成 system_error。

import (
	"context"
	"fmt"

	"bidsmith/internal/decision"
	"bidsmith/internal/history"
	"bidsmith/internal/intel"
	"bidsmith/internal/logger"
	"bidsmith/internal/proxy"
	"bidsmith/internal/rules"
	"bidsmith/internal/safety"
	"bidsmith/internal/store/decisionlog"
	"bidsmith/internal/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Strategist 决策引擎本体。所有协作方经构造器注入，无包级单例。
type Strategist struct {
	intel     *intel.Service
	engine    *decision.Engine
	validator *decision.Validator
	rules     *rules.Selector

	// learning 与 audit 均可为 nil：分别表示无历史存储、不落审计。
	learning *history.Learning
	audit    *decisionlog.DecisionLogStore

	stats Stats
}

// New 构建编排器。intel/validator/rules 必填；engine 可为 rules-only。
func New(intelSvc *intel.Service, engine *decision.Engine, validator *decision.Validator,
	selector *rules.Selector, learning *history.Learning, audit *decisionlog.DecisionLogStore) *Strategist {
	return &Strategist{
		intel:     intelSvc,
		engine:    engine,
		validator: validator,
		rules:     selector,
		learning:  learning,
		audit:     audit,
	}
}

// pipelineState 单次调用的流水线状态，调用结束即丢弃。
type pipelineState struct {
	traceID string
	auction types.AuctionContext

	intel   types.MarketIntelligence
	history history.Context

	blocked     bool
	blockReason string

	proposal         decision.Proposal
	llmValid         bool
	validationReason string

	chosen        types.StrategyDecision
	proxyDecision types.ProxyDecision
	source        types.DecisionSource

	final types.FinalDecision
}

// Decide 主入口。ctx 携带截止时间时只有历史读取与推理调用会被打断：
// 历史读取被打断按空上下文继续，推理被打断按“无输出”走规则兜底；纯计算阶段不受影响。
func (s *Strategist) Decide(ctx context.Context, auction types.AuctionContext) (out types.FinalDecision) {
	state := &pipelineState{traceID: uuid.NewString(), auction: auction}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("决策流水线 panic (trace=%s): %v", state.traceID, r)
			out = s.systemError(state, fmt.Sprintf("internal failure: %v", r))
		}
		s.recordAudit(state, out)
	}()

	if err := auction.Validate(); err != nil {
		return s.systemError(state, fmt.Sprintf("invalid input: %v", err))
	}

	// 读取阶段：情报富集与历史读取可并行，全部完成后才进推理。
	s.enrichState(ctx, state)

	if result := safety.Check(auction); result.Blocked {
		state.blocked = true
		state.blockReason = result.Rule + ": " + result.Reason
		state.source = types.SourceSafetyBlock
		state.final = safety.BlockDecision(result)
		state.final.TraceID = state.traceID
		s.stats.record(types.SourceSafetyBlock)
		return state.final
	}

	// 推理 → 校验 → 兜底。校验失败不回头重问模型，流水线是 DAG。
	state.proposal = s.engine.Propose(ctx, state.traceID, auction, state.intel, state.history)
	if state.proposal.Decision != nil {
		state.llmValid, state.validationReason = s.validator.Validate(state.proposal.Decision, auction)
	} else {
		state.llmValid = false
		state.validationReason = "MISSING: " + state.proposal.FailureReason
	}

	if state.llmValid {
		state.chosen = *state.proposal.Decision
		state.source = types.SourceLLM
	} else {
		if state.proposal.Decision != nil {
			logger.Infof("模型决策被拒，转规则兜底 (trace=%s): %s", state.traceID, state.validationReason)
		}
		state.chosen = s.rules.Select(auction, state.intel)
		state.source = types.SourceRulesFallback
	}

	// 代理数学层。accept_loss 是唯一允许的后层覆盖，走显式分支。
	updated, proxyDecision := proxy.Apply(auction, state.chosen)
	state.chosen = updated
	state.proxyDecision = proxyDecision

	state.final = s.finalize(state)
	s.stats.record(state.source)
	return state.final
}

// enrichState 并行执行情报富集与历史读取；历史失败按空上下文继续。
func (s *Strategist) enrichState(ctx context.Context, state *pipelineState) {
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		state.intel = s.intel.Enrich(state.auction)
		return nil
	})
	group.Go(func() error {
		if s.learning == nil {
			state.history = history.Context{
				ValueTier:         state.auction.Tier(),
				SuggestedMaxRatio: history.BaseSafeMaxRatio,
			}
			return nil
		}
		hist, err := s.learning.HistoricalContext(gctx, state.auction)
		if err != nil {
			logger.Warnf("历史上下文读取失败，忽略 (trace=%s): %v", state.traceID, err)
		}
		state.history = hist
		return nil
	})
	_ = group.Wait()
}

func (s *Strategist) finalize(state *pipelineState) types.FinalDecision {
	chosen := state.chosen
	pd := state.proxyDecision

	shouldIncrease := pd.ShouldIncreaseProxy
	if chosen.ShouldIncreaseProxy != nil {
		shouldIncrease = *chosen.ShouldIncreaseProxy
	}

	final := types.FinalDecision{
		TraceID:              state.traceID,
		Strategy:             chosen.Strategy,
		RecommendedBidAmount: chosen.RecommendedBidAmount,
		ShouldIncreaseProxy:  shouldIncrease,
		NextBidAmount:        chosen.NextBidAmount,
		MaxBudgetForDomain:   chosen.MaxBudgetForDomain,
		RiskLevel:            chosen.RiskLevel,
		Confidence:           chosen.Confidence,
		Reasoning:            chosen.Reasoning,
		ProxyDecision:        &pd,
		DecisionSource:       state.source,
	}
	if state.source == types.SourceRulesFallback && state.validationReason != "" {
		final.BlockReason = state.validationReason
	}
	return final
}

// systemError 灾难兜底：固定 do_not_bid，置信度 0。
func (s *Strategist) systemError(state *pipelineState, reason string) types.FinalDecision {
	s.stats.record(types.SourceSystemError)
	state.source = types.SourceSystemError
	final := types.FinalDecision{
		TraceID:              state.traceID,
		Strategy:             types.StrategyDoNotBid,
		RecommendedBidAmount: 0,
		ShouldIncreaseProxy:  false,
		MaxBudgetForDomain:   0,
		RiskLevel:            types.RiskHigh,
		Confidence:           0,
		Reasoning:            "System error: " + reason + ". Emergency safe decision: do not bid.",
		DecisionSource:       types.SourceSystemError,
		BlockReason:          "system_error: " + reason,
	}
	state.final = final
	return final
}

// Stats 当前累计计数快照。
func (s *Strategist) Stats() StatsSnapshot { return s.stats.snapshot() }
