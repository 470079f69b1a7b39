package decision

// 中文说明：
// 推理适配层：拼提示词 → 调模型 → 提取/校验/收敛 JSON。
// 任何失败（断网、超时、无凭证、输出不可解析、schema 不符、语义不可能）
// 一律折叠为“无输出”，绝不向编排器抛错，也不在本层重试整个决策。

import (
	"context"
	"fmt"

	"bidsmith/internal/gateway/provider"
	"bidsmith/internal/history"
	"bidsmith/internal/logger"
	"bidsmith/internal/types"
)

// Proposal 推理结果与审计材料。Decision 为 nil 表示无输出。
type Proposal struct {
	Decision      *types.StrategyDecision
	SystemPrompt  string
	UserPrompt    string
	RawOutput     string
	FailureReason string
}

// Engine 推理引擎。provider 为 nil 或未启用时处于 rules-only 模式。
type Engine struct {
	provider provider.ModelProvider
	schema   *Schema
}

func NewEngine(p provider.ModelProvider, schema *Schema) *Engine {
	return &Engine{provider: p, schema: schema}
}

// Enabled 是否具备调用外部推理端的条件。
func (e *Engine) Enabled() bool {
	return e != nil && e.provider != nil && e.provider.Enabled()
}

// Propose 请求一次策略建议。对同一输入不做二次请求。
func (e *Engine) Propose(ctx context.Context, traceID string, auction types.AuctionContext, intel types.MarketIntelligence, hist history.Context) Proposal {
	out := Proposal{}
	if !e.Enabled() {
		out.FailureReason = "reasoner disabled or credentials missing"
		return out
	}

	out.SystemPrompt = SystemPrompt()
	out.UserPrompt = BuildUserPrompt(auction, intel, hist)
	logger.LogLLMRequest("decision", e.provider.ID(), traceID, out.SystemPrompt, out.UserPrompt, "")

	raw, err := e.provider.Call(ctx, out.SystemPrompt, out.UserPrompt)
	if err != nil {
		out.FailureReason = fmt.Sprintf("reasoner call failed: %v", err)
		logger.Warnf("[AI] 调用失败 (trace=%s): %v", traceID, err)
		return out
	}
	out.RawOutput = raw
	logger.LogLLMResponse("decision", e.provider.ID(), traceID, raw)

	rawJSON, err := ExtractDecisionJSON(raw)
	if err != nil {
		out.FailureReason = fmt.Sprintf("unparseable output: %v", err)
		logger.Warnf("[AI] 输出无法解析 (trace=%s): %v", traceID, err)
		return out
	}
	if err := e.schema.Validate(rawJSON); err != nil {
		out.FailureReason = fmt.Sprintf("schema mismatch: %v", err)
		logger.Warnf("[AI] 输出不符合 schema (trace=%s): %v", traceID, err)
		return out
	}
	decision, err := CoerceStrategyDecision(rawJSON)
	if err != nil {
		out.FailureReason = fmt.Sprintf("semantic rejection: %v", err)
		logger.Warnf("[AI] 输出语义不可用 (trace=%s): %v", traceID, err)
		return out
	}
	out.Decision = decision
	return out
}
