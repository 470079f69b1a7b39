package decision

// 中文说明：
// 模型输出的 JSON Schema 约束。模板从 YAML 文件载入（可调），
// 缺文件时退回内置 schema。编译失败视为配置错误，启动即报。

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// SchemaFile 映射 decision_schema.yaml。
type SchemaFile struct {
	Schema map[string]interface{} `yaml:"schema"`
}

// Schema 已编译的输出约束。
type Schema struct {
	compiled *jsonschema.Schema
}

// LoadSchema 从 YAML 文件载入并编译；path 为空时用内置 schema。
func LoadSchema(path string) (*Schema, error) {
	data := defaultSchema()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read decision schema failed: %w", err)
			}
		} else {
			var cfg SchemaFile
			dec := yaml.NewDecoder(bytes.NewReader(raw))
			dec.KnownFields(true)
			if err := dec.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("parse decision schema failed: %w", err)
			}
			if len(cfg.Schema) > 0 {
				data = cfg.Schema
			}
		}
	}
	compiled, err := compileSchema(data)
	if err != nil {
		return nil, fmt.Errorf("compile decision schema failed: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

func compileSchema(data map[string]interface{}) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

// Validate 校验模型输出的 JSON 文本。
func (s *Schema) Validate(rawJSON string) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(rawJSON), &doc); err != nil {
		return fmt.Errorf("json 格式无效: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema 不匹配: %w", err)
	}
	return nil
}

// defaultSchema 内置的 StrategyDecision 输出约束。
func defaultSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"strategy", "recommended_bid_amount", "confidence", "risk_level", "reasoning"},
		"properties": map[string]interface{}{
			"strategy": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{
					"proxy_max", "last_minute_snipe", "incremental_test",
					"wait_for_closeout", "aggressive_early", "do_not_bid",
				},
			},
			"recommended_bid_amount": map[string]interface{}{"type": "number", "minimum": 0},
			"confidence":             map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
			"risk_level": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"low", "medium", "high"},
			},
			"reasoning": map[string]interface{}{"type": "string", "minLength": 50},
		},
	}
}
