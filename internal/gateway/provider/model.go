package provider

import "context"

// ModelProvider 外部推理端抽象：输入 system/user 提示词，返回原始文本。
// 实现必须可并发调用；超时/取消通过 ctx 传入。
type ModelProvider interface {
	ID() string
	Enabled() bool
	Call(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
