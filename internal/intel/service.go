package intel

// 中文说明：
// Service 持有当前表集合并提供富集查询。表共享只读；重载时整体换入，
// 单写多读（fsnotify 触发重载，与教师配置热载同一套路）。

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bidsmith/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Options 情报匹配阈值，均为可调参数。
type Options struct {
	AggressionTolerance  float64
	ReactionToleranceSec float64
	MinClusterSamples    int
	ResourceHighCutoff   float64
	ResourceMediumCutoff float64
}

// DefaultOptions 与离线管线保持一致的缺省阈值。
func DefaultOptions() Options {
	return Options{
		AggressionTolerance:  2.0,
		ReactionToleranceSec: 60.0,
		MinClusterSamples:    5,
		ResourceHighCutoff:   1.0,
		ResourceMediumCutoff: 0.5,
	}
}

// Service 市场情报服务。
type Service struct {
	opts    Options
	dataDir string

	mu     sync.RWMutex
	tables *Tables

	watcher  *fsnotify.Watcher
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewService 载入数据目录下的表并构建服务。目录缺表时按空表继续（fail open）。
func NewService(dataDir string, opts Options) (*Service, error) {
	tables, err := LoadTables(dataDir)
	if err != nil {
		return nil, fmt.Errorf("载入情报表失败: %w", err)
	}
	if opts.MinClusterSamples <= 0 {
		opts = DefaultOptions()
	}
	logger.Infof("情报表载入完成: bidders=%d domains=%d archetypes=%d (dir=%s)",
		len(tables.Bidders), len(tables.Domains), len(tables.Archetypes), dataDir)
	return &Service{opts: opts, dataDir: dataDir, tables: tables, stopCh: make(chan struct{})}, nil
}

// NewServiceFromTables 直接注入表，测试用。
func NewServiceFromTables(tables *Tables, opts Options) *Service {
	if tables == nil {
		tables = &Tables{}
	}
	if tables.bidderIndex == nil || tables.domainIndex == nil {
		tables.bidderIndex = make(map[string]*BidderProfile)
		tables.domainIndex = make(map[string]*DomainStat)
		tables.buildIndexes()
	}
	if opts.MinClusterSamples <= 0 {
		opts = DefaultOptions()
	}
	return &Service{opts: opts, tables: tables, stopCh: make(chan struct{})}
}

func (s *Service) snapshot() *Tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables
}

// Reload 重新载入数据目录并原子换入。
func (s *Service) Reload() error {
	if s.dataDir == "" {
		return fmt.Errorf("情报服务未绑定数据目录")
	}
	tables, err := LoadTables(s.dataDir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()
	logger.Infof("情报表已重载: bidders=%d domains=%d archetypes=%d",
		len(tables.Bidders), len(tables.Domains), len(tables.Archetypes))
	return nil
}

// Watch 监听数据目录中三张表的变化并自动重载。重载失败保留旧表。
func (s *Service) Watch() error {
	if s.dataDir == "" {
		return fmt.Errorf("情报服务未绑定数据目录")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dataDir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	go func() {
		// 简单防抖：文件逐个写入时合并为一次重载。
		var pending <-chan time.Time
		for {
			select {
			case <-s.stopCh:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isTableFile(ev.Name) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(500 * time.Millisecond)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("情报目录监听错误: %v", err)
			case <-pending:
				pending = nil
				if err := s.Reload(); err != nil {
					logger.Warnf("情报表重载失败，沿用旧表: %v", err)
				}
			}
		}
	}()
	return nil
}

// Close 停止监听。
func (s *Service) Close() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
}

func isTableFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return base == biddersFile || base == domainsFile || base == archetypesFile
}
