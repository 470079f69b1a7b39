package app

// App 负责应用级编排：加载配置 → 初始化依赖 → 暴露决策引擎。
// 引擎本身不轮询平台也不执行出价，这些由外层调用方完成。

import (
	"fmt"

	brcfg "bidsmith/internal/config"
	"bidsmith/internal/history"
	"bidsmith/internal/intel"
	"bidsmith/internal/logger"
	"bidsmith/internal/store/decisionlog"
	"bidsmith/internal/strategist"
)

type App struct {
	cfg *brcfg.Config

	strategist *strategist.Strategist
	intelSvc   *intel.Service
	journal    *history.Journal

	historyStore history.Store
	auditStore   *decisionlog.DecisionLogStore
}

// NewApp 根据配置构建应用对象（不启动任何轮询）。
func NewApp(cfg *brcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(cfg)
}

// Strategist 决策引擎入口。
func (a *App) Strategist() *strategist.Strategist {
	if a == nil {
		return nil
	}
	return a.strategist
}

// Journal 历史记录辅助；未启用历史存储时为 nil。
func (a *App) Journal() *history.Journal {
	if a == nil {
		return nil
	}
	return a.journal
}

// Close 释放底层资源。
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.intelSvc != nil {
		a.intelSvc.Close()
	}
	var firstErr error
	if a.historyStore != nil {
		if err := a.historyStore.Close(); err != nil {
			firstErr = err
		}
	}
	if a.auditStore != nil {
		if err := a.auditStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
