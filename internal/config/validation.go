package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level 不合法: %q", c.App.LogLevel)
	}
	if c.AI.Enabled {
		if strings.TrimSpace(c.AI.BaseURL) == "" {
			return fmt.Errorf("ai.base_url 不能为空")
		}
		if strings.TrimSpace(c.AI.Model) == "" {
			return fmt.Errorf("ai.model 不能为空")
		}
		if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
			return fmt.Errorf("ai.temperature 需在 0-2: %v", c.AI.Temperature)
		}
	}
	if c.Intel.AggressionTolerance > 10 {
		return fmt.Errorf("intel.aggression_tolerance 超出 0-10: %v", c.Intel.AggressionTolerance)
	}
	if c.Intel.ResourceMediumCutoff > c.Intel.ResourceHighCutoff {
		return fmt.Errorf("intel.resource_medium_cutoff 不能高于 high cutoff")
	}
	if c.Strategy.MinKeywordHits > len(c.Strategy.ReasoningKeywords) {
		return fmt.Errorf("strategy.min_keyword_hits 超过关键词总数")
	}
	if c.Strategy.LowRiskMinConfidence > 1 {
		return fmt.Errorf("strategy.low_risk_min_confidence 需在 0-1")
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history.path 不能为空")
	}
	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		return fmt.Errorf("audit.path 不能为空")
	}
	return nil
}
