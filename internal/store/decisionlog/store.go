package decisionlog

// DecisionLogStore 管理每次 decide() 的审计轨迹：输入摘要、提示词、
// 模型原始输出、校验结论、胜出层与最终决策，方便事后排查“为什么是这个决定”。
// 写入尽力而为，失败只记日志，绝不影响决策返回。

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bidsmith/internal/types"

	_ "modernc.org/sqlite"
)

type DecisionLogStore struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Record 一条完整的审计记录。
type Record struct {
	TraceID          string               `json:"trace_id"`
	ID               int64                `json:"id"`
	Timestamp        int64                `json:"ts"`
	Domain           string               `json:"domain"`
	Platform         string               `json:"platform"`
	ThreadID         string               `json:"thread_id,omitempty"`
	DecisionSource   string               `json:"decision_source"`
	Strategy         string               `json:"strategy"`
	Amount           float64              `json:"amount"`
	Confidence       float64              `json:"confidence"`
	BlockReason      string               `json:"block_reason,omitempty"`
	ValidationReason string               `json:"validation_reason,omitempty"`
	SystemPrompt     string               `json:"system_prompt,omitempty"`
	UserPrompt       string               `json:"user_prompt,omitempty"`
	RawOutput        string               `json:"raw_output,omitempty"`
	Final            *types.FinalDecision `json:"final,omitempty"`
	Error            string               `json:"error,omitempty"`
}

// NewDecisionLogStore 初始化 SQLite 审计存储。
func NewDecisionLogStore(path string) (*DecisionLogStore, error) {
	if path == "" {
		return nil, fmt.Errorf("decision log path 不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	store := &DecisionLogStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *DecisionLogStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS decision_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trace_id TEXT NOT NULL,
		ts INTEGER NOT NULL,
		domain TEXT,
		platform TEXT,
		thread_id TEXT,
		decision_source TEXT,
		strategy TEXT,
		amount REAL,
		confidence REAL,
		block_reason TEXT,
		validation_reason TEXT,
		system_prompt TEXT,
		user_prompt TEXT,
		raw_output TEXT,
		final_json TEXT,
		error TEXT
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_audit_trace ON decision_audit(trace_id)`)
	return err
}

// Append 追加一条记录。
func (s *DecisionLogStore) Append(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return nil
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UTC().Unix()
	}
	var finalJSON []byte
	if rec.Final != nil {
		finalJSON, _ = json.Marshal(rec.Final)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO decision_audit
		(trace_id, ts, domain, platform, thread_id, decision_source, strategy,
		 amount, confidence, block_reason, validation_reason,
		 system_prompt, user_prompt, raw_output, final_json, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TraceID, rec.Timestamp, rec.Domain, rec.Platform, rec.ThreadID,
		rec.DecisionSource, rec.Strategy, rec.Amount, rec.Confidence,
		rec.BlockReason, rec.ValidationReason,
		rec.SystemPrompt, rec.UserPrompt, rec.RawOutput, string(finalJSON), rec.Error)
	return err
}

// Recent 倒序取最近 n 条记录。
func (s *DecisionLogStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `SELECT id, trace_id, ts, domain, platform, thread_id,
		decision_source, strategy, amount, confidence, block_reason, validation_reason,
		system_prompt, user_prompt, raw_output, final_json, error
		FROM decision_audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var finalJSON string
		if err := rows.Scan(&rec.ID, &rec.TraceID, &rec.Timestamp, &rec.Domain, &rec.Platform,
			&rec.ThreadID, &rec.DecisionSource, &rec.Strategy, &rec.Amount, &rec.Confidence,
			&rec.BlockReason, &rec.ValidationReason, &rec.SystemPrompt, &rec.UserPrompt,
			&rec.RawOutput, &finalJSON, &rec.Error); err != nil {
			return nil, err
		}
		if finalJSON != "" {
			var fd types.FinalDecision
			if err := json.Unmarshal([]byte(finalJSON), &fd); err == nil {
				rec.Final = &fd
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close 关闭底层连接。
func (s *DecisionLogStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
