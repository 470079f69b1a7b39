package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bidsmith/internal/app"
	brcfg "bidsmith/internal/config"
	"bidsmith/internal/logger"
	"bidsmith/internal/types"
)

// 中文说明：
// 一次性决策入口：从文件或 stdin 读入 AuctionContext JSON，
// 跑完整决策流水线并输出 FinalDecision JSON。
// 外层轮询与出价执行不在本进程内。

func main() {
	var (
		configPath string
		inputPath  string
		deadline   time.Duration
	)
	flag.StringVar(&configPath, "config", "", "配置文件路径（缺省读 BIDSMITH_CONFIG 或 configs/config.yaml）")
	flag.StringVar(&inputPath, "input", "-", "AuctionContext JSON 文件，- 表示 stdin")
	flag.DurationVar(&deadline, "deadline", 0, "单次决策截止时长（如 20s；0 表示不限）")
	flag.Parse()

	if configPath == "" {
		configPath = os.Getenv("BIDSMITH_CONFIG")
	}
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := brcfg.Load(configPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("初始化日志文件失败: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLLMWriter(nil)
	if cfg.App.LLMDump {
		f, err := setupLLMLogOutput(cfg.App.LLMLog)
		if err != nil {
			log.Fatalf("初始化 LLM 日志失败: %v", err)
		}
		if f != nil {
			defer f.Close()
		}
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.EnableLLMPayloadDump(cfg.App.LLMDump)
	logger.Infof("✓ 配置加载成功（环境=%s，情报目录=%s）", cfg.App.Env, cfg.Intel.DataDir)

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	defer application.Close()

	auction, err := readAuctionContext(inputPath)
	if err != nil {
		log.Fatalf("读取竞拍上下文失败: %v", err)
	}

	ctx := context.Background()
	if deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	final := application.Strategist().Decide(ctx, auction)

	out, err := json.MarshalIndent(final, "", "  ")
	if err != nil {
		log.Fatalf("序列化决策失败: %v", err)
	}
	fmt.Println(string(out))
}

func readAuctionContext(path string) (types.AuctionContext, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return types.AuctionContext{}, err
		}
		defer f.Close()
		reader = f
	}
	var auction types.AuctionContext
	dec := json.NewDecoder(reader)
	if err := dec.Decode(&auction); err != nil {
		return types.AuctionContext{}, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	return auction, nil
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}

func setupLLMLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	logger.SetLLMWriter(f)
	return f, nil
}
