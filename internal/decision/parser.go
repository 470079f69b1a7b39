package decision

// 中文说明：
// 模型输出解析与收敛：剥掉 markdown 围栏，提取首个 JSON 对象，
// 再把松散字段收敛为严格的 StrategyDecision。任何语义不可能
// （负数出价、未知标签）都在这里拒绝。

import (
	"fmt"
	"strings"

	"bidsmith/internal/types"

	"github.com/tidwall/gjson"
)

// ExtractDecisionJSON 从原始输出里提取决策对象的 JSON 文本。
func ExtractDecisionJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("模型输出为空")
	}
	raw = stripCodeFences(raw)

	if gjson.Valid(raw) && gjson.Parse(raw).IsObject() {
		return raw, nil
	}
	// 输出夹杂说明文字时，按括号配平提取首个对象。
	obj, ok := extractFirstObject(raw)
	if !ok || !gjson.Valid(obj) {
		return "", fmt.Errorf("未找到合法的 JSON 对象")
	}
	return obj, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// extractFirstObject 提取首个配平的 JSON 对象文本。
func extractFirstObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1]), true
			}
		}
	}
	return "", false
}

// CoerceStrategyDecision 把 JSON 文本收敛为 StrategyDecision。
func CoerceStrategyDecision(rawJSON string) (*types.StrategyDecision, error) {
	parsed := gjson.Parse(rawJSON)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("根节点必须是 JSON 对象")
	}

	strategy, ok := types.ParseStrategy(parsed.Get("strategy").String())
	if !ok {
		return nil, fmt.Errorf("非法 strategy: %q", parsed.Get("strategy").String())
	}
	amount := parsed.Get("recommended_bid_amount").Float()
	if amount < 0 {
		return nil, fmt.Errorf("recommended_bid_amount 不能为负: %v", amount)
	}
	confidence := parsed.Get("confidence").Float()
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence 需在 0-1: %v", confidence)
	}
	risk := types.RiskLevel(strings.ToLower(strings.TrimSpace(parsed.Get("risk_level").String())))
	if !risk.Valid() {
		return nil, fmt.Errorf("非法 risk_level: %q", parsed.Get("risk_level").String())
	}
	reasoning := strings.TrimSpace(parsed.Get("reasoning").String())
	if len(reasoning) < 50 {
		return nil, fmt.Errorf("reasoning 过短 (%d 字符)", len(reasoning))
	}

	d := &types.StrategyDecision{
		Strategy:             strategy,
		RecommendedBidAmount: amount,
		Confidence:           confidence,
		RiskLevel:            risk,
		Reasoning:            reasoning,
		MaxBudgetForDomain:   amount,
	}
	if v := parsed.Get("max_budget_for_domain"); v.Exists() && v.Float() >= 0 {
		d.MaxBudgetForDomain = v.Float()
	}
	return d, nil
}
