package config

// Config 是 bidsmith 的主配置载体。
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	AI       AIConfig       `mapstructure:"ai"`
	Intel    IntelConfig    `mapstructure:"intel"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	History  HistoryConfig  `mapstructure:"history"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
	LLMLog   string `mapstructure:"llm_log_path"`
	LLMDump  bool   `mapstructure:"llm_dump_payload"`
}

// AIConfig 描述外部推理端（OpenAI 兼容接口）的访问方式。
// APIKeyEnv 列出候选环境变量名；全部缺失时进入 rules-only 模式，启动不报错。
type AIConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	BaseURL        string   `mapstructure:"base_url"`
	Model          string   `mapstructure:"model"`
	APIKeyEnv      []string `mapstructure:"api_key_env"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	MaxRetries     int      `mapstructure:"max_retries"`
	Temperature    float64  `mapstructure:"temperature"`
	SchemaPath     string   `mapstructure:"schema_path"`

	// 熔断：连续失败 BreakerThreshold 次后短路 BreakerCooldownSeconds。
	BreakerThreshold       int `mapstructure:"breaker_threshold"`
	BreakerCooldownSeconds int `mapstructure:"breaker_cooldown_seconds"`
}

// IntelConfig 市场情报表的位置与匹配阈值。
// 阈值是可调参数；安全层的硬常量不在配置里。
type IntelConfig struct {
	DataDir              string  `mapstructure:"data_dir"`
	WatchReload          bool    `mapstructure:"watch_reload"`
	AggressionTolerance  float64 `mapstructure:"aggression_tolerance"`
	ReactionToleranceSec float64 `mapstructure:"reaction_tolerance_sec"`
	MinClusterSamples    int     `mapstructure:"min_cluster_samples"`
	ResourceHighCutoff   float64 `mapstructure:"resource_high_cutoff"`
	ResourceMediumCutoff float64 `mapstructure:"resource_medium_cutoff"`
}

// StrategyConfig 校验器里的启发式可调项（推理质量检查等）。
type StrategyConfig struct {
	MinReasoningChars    int      `mapstructure:"min_reasoning_chars"`
	ReasoningKeywords    []string `mapstructure:"reasoning_keywords"`
	MinKeywordHits       int      `mapstructure:"min_keyword_hits"`
	LowRiskMinConfidence float64  `mapstructure:"low_risk_min_confidence"`
}

type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Path         string `mapstructure:"path"`
	MinSamples   int    `mapstructure:"min_samples"`
	SimilarLimit int    `mapstructure:"similar_limit"`
}

type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
