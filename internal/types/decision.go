package types

// 中文说明：
// 策略/代理/最终决策结构。策略来源于推理引擎或规则选择器，
// 代理分析由数学层产出，最终决策由编排器汇总。

import "strings"

// Strategy 六种允许的出价策略标签。
type Strategy string

const (
	StrategyProxyMax        Strategy = "proxy_max"
	StrategyLastMinuteSnipe Strategy = "last_minute_snipe"
	StrategyIncrementalTest Strategy = "incremental_test"
	StrategyWaitForCloseout Strategy = "wait_for_closeout"
	StrategyAggressiveEarly Strategy = "aggressive_early"
	StrategyDoNotBid        Strategy = "do_not_bid"
)

var validStrategies = map[Strategy]bool{
	StrategyProxyMax:        true,
	StrategyLastMinuteSnipe: true,
	StrategyIncrementalTest: true,
	StrategyWaitForCloseout: true,
	StrategyAggressiveEarly: true,
	StrategyDoNotBid:        true,
}

// Valid 策略标签是否合法。
func (s Strategy) Valid() bool { return validStrategies[s] }

// ParseStrategy 大小写不敏感解析策略标签。
func ParseStrategy(s string) (Strategy, bool) {
	v := Strategy(strings.ToLower(strings.TrimSpace(s)))
	return v, validStrategies[v]
}

// AllStrategies 按固定顺序返回全部策略（用于提示词与统计遍历）。
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyProxyMax,
		StrategyLastMinuteSnipe,
		StrategyIncrementalTest,
		StrategyWaitForCloseout,
		StrategyAggressiveEarly,
		StrategyDoNotBid,
	}
}

// RiskLevel 风险级别。
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid 风险级别是否合法。
func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// DecisionSource 标记最终决策由哪一层产出。
type DecisionSource string

const (
	SourceLLM           DecisionSource = "llm"
	SourceRulesFallback DecisionSource = "rules_fallback"
	SourceSafetyBlock   DecisionSource = "safety_block"
	SourceSystemError   DecisionSource = "system_error"
)

// ProxyAction 代理调整动作。
type ProxyAction string

const (
	ProxyAcceptLoss   ProxyAction = "accept_loss"
	ProxyIncrease     ProxyAction = "increase_proxy"
	ProxyMaintain     ProxyAction = "maintain_proxy"
	ProxyInitialSetup ProxyAction = "initial_setup"
)

// StrategyDecision 推理引擎或规则选择器的输出。
type StrategyDecision struct {
	Strategy             Strategy  `json:"strategy"`
	RecommendedBidAmount float64   `json:"recommended_bid_amount"`
	Confidence           float64   `json:"confidence"` // 0-1
	RiskLevel            RiskLevel `json:"risk_level"`
	Reasoning            string    `json:"reasoning"`

	// 以下字段由代理层回填，策略层可以留空。
	ShouldIncreaseProxy *bool    `json:"should_increase_proxy,omitempty"`
	NextBidAmount       *float64 `json:"next_bid_amount,omitempty"`
	MaxBudgetForDomain  float64  `json:"max_budget_for_domain"`
}

// ProxyDecision 代理计算层的输出。
type ProxyDecision struct {
	CurrentProxy        float64     `json:"current_proxy"`
	CurrentBid          float64     `json:"current_bid"`
	SafeMax             float64     `json:"safe_max"`
	ShouldIncreaseProxy bool        `json:"should_increase_proxy"`
	NewProxyMax         *float64    `json:"new_proxy_max,omitempty"`
	NextBidAmount       *float64    `json:"next_bid_amount,omitempty"`
	MaxBudgetForDomain  float64     `json:"max_budget_for_domain"`
	ProxyAction         ProxyAction `json:"proxy_action"`
	Explanation         string      `json:"explanation"`
}

// FinalDecision decide() 的唯一出口；错误同样以该结构承载。
type FinalDecision struct {
	TraceID              string         `json:"trace_id,omitempty"`
	Strategy             Strategy       `json:"strategy"`
	RecommendedBidAmount float64        `json:"recommended_bid_amount"`
	ShouldIncreaseProxy  bool           `json:"should_increase_proxy"`
	NextBidAmount        *float64       `json:"next_bid_amount,omitempty"`
	MaxBudgetForDomain   float64        `json:"max_budget_for_domain"`
	RiskLevel            RiskLevel      `json:"risk_level"`
	Confidence           float64        `json:"confidence"`
	Reasoning            string         `json:"reasoning"`
	ProxyDecision        *ProxyDecision `json:"proxy_decision,omitempty"`
	DecisionSource       DecisionSource `json:"decision_source"`
	BlockReason          string         `json:"block_reason,omitempty"`
}

// Float64Ptr 便捷取指针。
func Float64Ptr(v float64) *float64 { return &v }

// BoolPtr 便捷取指针。
func BoolPtr(v bool) *bool { return &v }
