package strategist

// 运行期计数：按决策来源累计，供监控与回归观察 LLM 成功率/兜底率。

import (
	"sync/atomic"

	"bidsmith/internal/types"
)

type Stats struct {
	total         atomic.Int64
	llm           atomic.Int64
	rulesFallback atomic.Int64
	safetyBlock   atomic.Int64
	systemError   atomic.Int64
}

// StatsSnapshot 某一时刻的只读快照。
type StatsSnapshot struct {
	TotalDecisions int64 `json:"total_decisions"`
	LLM            int64 `json:"llm"`
	RulesFallback  int64 `json:"rules_fallback"`
	SafetyBlock    int64 `json:"safety_block"`
	SystemError    int64 `json:"system_error"`
}

func (s *Stats) record(source types.DecisionSource) {
	s.total.Add(1)
	switch source {
	case types.SourceLLM:
		s.llm.Add(1)
	case types.SourceRulesFallback:
		s.rulesFallback.Add(1)
	case types.SourceSafetyBlock:
		s.safetyBlock.Add(1)
	case types.SourceSystemError:
		s.systemError.Add(1)
	}
}

func (s *Stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalDecisions: s.total.Load(),
		LLM:            s.llm.Load(),
		RulesFallback:  s.rulesFallback.Load(),
		SafetyBlock:    s.safetyBlock.Load(),
		SystemError:    s.systemError.Load(),
	}
}

// LLMSuccessRate LLM 直出占比。
func (snap StatsSnapshot) LLMSuccessRate() float64 {
	if snap.TotalDecisions == 0 {
		return 0
	}
	return float64(snap.LLM) / float64(snap.TotalDecisions)
}

// FallbackRate 规则兜底占比。
func (snap StatsSnapshot) FallbackRate() float64 {
	if snap.TotalDecisions == 0 {
		return 0
	}
	return float64(snap.RulesFallback) / float64(snap.TotalDecisions)
}
