package app

// 中文说明：
// AppBuilder 按配置逐个装配协作方。推理凭证缺失不是错误：
// 引擎降级为 rules-only，所有非拦截决策报 rules_fallback。

import (
	"fmt"
	"os"
	"strings"
	"time"

	brcfg "bidsmith/internal/config"
	"bidsmith/internal/decision"
	"bidsmith/internal/gateway/provider"
	"bidsmith/internal/history"
	"bidsmith/internal/intel"
	"bidsmith/internal/logger"
	"bidsmith/internal/rules"
	"bidsmith/internal/store/decisionlog"
	"bidsmith/internal/store/gormstore"
	"bidsmith/internal/strategist"
)

// HistoryDSNEnv 历史库路径的环境变量覆盖。
const HistoryDSNEnv = "BIDSMITH_HISTORY_DSN"

type AppBuilder struct {
	cfg *brcfg.Config
}

func NewAppBuilder(cfg *brcfg.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

func (b *AppBuilder) Build() (*App, error) {
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	intelSvc, err := b.buildIntel()
	if err != nil {
		return nil, err
	}

	engine, err := b.buildEngine()
	if err != nil {
		return nil, err
	}

	validator := decision.NewValidator(decision.ValidatorOptions{
		MinReasoningChars:    cfg.Strategy.MinReasoningChars,
		ReasoningKeywords:    cfg.Strategy.ReasoningKeywords,
		MinKeywordHits:       cfg.Strategy.MinKeywordHits,
		LowRiskMinConfidence: cfg.Strategy.LowRiskMinConfidence,
	})

	var historyStore history.Store
	var learning *history.Learning
	var journal *history.Journal
	if cfg.History.Enabled {
		path := cfg.History.Path
		if env := strings.TrimSpace(os.Getenv(HistoryDSNEnv)); env != "" {
			path = env
		}
		store, err := gormstore.NewGormStore(path)
		if err != nil {
			return nil, fmt.Errorf("初始化历史存储失败: %w", err)
		}
		historyStore = store
		learning = history.NewLearning(store, cfg.History.MinSamples, cfg.History.SimilarLimit)
		journal = history.NewJournal(store)
	}

	var auditStore *decisionlog.DecisionLogStore
	if cfg.Audit.Enabled {
		auditStore, err = decisionlog.NewDecisionLogStore(cfg.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("初始化审计存储失败: %w", err)
		}
	}

	engineCore := strategist.New(intelSvc, engine, validator, rules.NewSelector(), learning, auditStore)

	return &App{
		cfg:          cfg,
		strategist:   engineCore,
		intelSvc:     intelSvc,
		journal:      journal,
		historyStore: historyStore,
		auditStore:   auditStore,
	}, nil
}

func (b *AppBuilder) buildIntel() (*intel.Service, error) {
	cfg := b.cfg
	svc, err := intel.NewService(cfg.Intel.DataDir, intel.Options{
		AggressionTolerance:  cfg.Intel.AggressionTolerance,
		ReactionToleranceSec: cfg.Intel.ReactionToleranceSec,
		MinClusterSamples:    cfg.Intel.MinClusterSamples,
		ResourceHighCutoff:   cfg.Intel.ResourceHighCutoff,
		ResourceMediumCutoff: cfg.Intel.ResourceMediumCutoff,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Intel.WatchReload {
		if err := svc.Watch(); err != nil {
			logger.Warnf("情报目录监听启动失败，继续使用静态表: %v", err)
		}
	}
	return svc, nil
}

func (b *AppBuilder) buildEngine() (*decision.Engine, error) {
	cfg := b.cfg
	schema, err := decision.LoadSchema(cfg.AI.SchemaPath)
	if err != nil {
		return nil, err
	}

	apiKey := resolveAPIKey(cfg.AI.APIKeyEnv)
	enabled := cfg.AI.Enabled && apiKey != ""
	switch {
	case !cfg.AI.Enabled:
		logger.Infof("推理端未启用，运行于 rules-only 模式")
	case apiKey == "":
		logger.Warnf("未找到推理端凭证（%s），运行于 rules-only 模式", strings.Join(cfg.AI.APIKeyEnv, "/"))
	}

	client := &provider.OpenAIChatClient{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      apiKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		MaxRetries:  cfg.AI.MaxRetries,
	}
	p := provider.NewBreakerProvider(
		provider.NewOpenAIModelProvider(cfg.AI.Model, enabled, client),
		cfg.AI.BreakerThreshold,
		time.Duration(cfg.AI.BreakerCooldownSeconds)*time.Second,
	)
	return decision.NewEngine(p, schema), nil
}

func resolveAPIKey(envNames []string) string {
	for _, name := range envNames {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
