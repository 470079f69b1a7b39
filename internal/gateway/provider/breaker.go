package provider

// BreakerProvider 给任意 ModelProvider 套熔断：推理端连续失败后
// 短路为“无输出”，让流水线直接走规则兜底，不再烧截止时间。

import (
	"context"
	"fmt"
	"time"

	"bidsmith/internal/pkg/circuit"
)

type BreakerProvider struct {
	inner   ModelProvider
	breaker *circuit.CircuitBreaker
}

func NewBreakerProvider(inner ModelProvider, threshold int, cooldown time.Duration) *BreakerProvider {
	return &BreakerProvider{
		inner:   inner,
		breaker: circuit.NewCircuitBreaker(inner.ID(), threshold, cooldown),
	}
}

func (p *BreakerProvider) ID() string    { return p.inner.ID() }
func (p *BreakerProvider) Enabled() bool { return p.inner.Enabled() }

func (p *BreakerProvider) Call(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !p.breaker.Allow() {
		return "", fmt.Errorf("circuit open: reasoner %s unavailable", p.inner.ID())
	}
	out, err := p.inner.Call(ctx, systemPrompt, userPrompt)
	if err != nil {
		// 调用方主动取消不算推理端故障。
		if ctx.Err() == nil {
			p.breaker.RecordFailure()
		}
		return "", err
	}
	p.breaker.RecordSuccess()
	return out, nil
}
