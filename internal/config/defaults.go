package config

// 中文说明：
// 缺省值补齐。安全层阈值（0.70/0.80/1.30/0.50/最低预算）是硬常量，
// 不出现在这里，也不允许配置覆盖。

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.AI.Model == "" {
		c.AI.Model = "openai/gpt-5.1"
	}
	if len(c.AI.APIKeyEnv) == 0 {
		c.AI.APIKeyEnv = []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY"}
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = 60
	}
	if c.AI.MaxRetries < 0 {
		c.AI.MaxRetries = 0
	}
	if c.AI.Temperature <= 0 {
		c.AI.Temperature = 0.1
	}
	if c.AI.SchemaPath == "" {
		c.AI.SchemaPath = "configs/decision_schema.yaml"
	}
	if c.AI.BreakerThreshold <= 0 {
		c.AI.BreakerThreshold = 3
	}
	if c.AI.BreakerCooldownSeconds <= 0 {
		c.AI.BreakerCooldownSeconds = 60
	}

	if c.Intel.DataDir == "" {
		c.Intel.DataDir = "data"
	}
	if c.Intel.AggressionTolerance <= 0 {
		c.Intel.AggressionTolerance = 2.0
	}
	if c.Intel.ReactionToleranceSec <= 0 {
		c.Intel.ReactionToleranceSec = 60.0
	}
	if c.Intel.MinClusterSamples <= 0 {
		c.Intel.MinClusterSamples = 5
	}
	if c.Intel.ResourceHighCutoff <= 0 {
		c.Intel.ResourceHighCutoff = 1.0
	}
	if c.Intel.ResourceMediumCutoff <= 0 {
		c.Intel.ResourceMediumCutoff = 0.5
	}

	if c.Strategy.MinReasoningChars <= 0 {
		c.Strategy.MinReasoningChars = 100
	}
	if len(c.Strategy.ReasoningKeywords) == 0 {
		c.Strategy.ReasoningKeywords = []string{"profit", "risk", "competition", "strategy"}
	}
	if c.Strategy.MinKeywordHits <= 0 {
		c.Strategy.MinKeywordHits = 2
	}
	if c.Strategy.LowRiskMinConfidence <= 0 {
		c.Strategy.LowRiskMinConfidence = 0.5
	}

	if c.History.Path == "" {
		c.History.Path = "data/history.db"
	}
	if c.History.MinSamples <= 0 {
		c.History.MinSamples = 5
	}
	if c.History.SimilarLimit <= 0 {
		c.History.SimilarLimit = 10
	}

	if c.Audit.Path == "" {
		c.Audit.Path = "data/decision_audit.db"
	}
}
