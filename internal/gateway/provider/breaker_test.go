package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyProvider struct {
	calls int
	fail  bool
}

func (f *flakyProvider) ID() string    { return "flaky" }
func (f *flakyProvider) Enabled() bool { return true }
func (f *flakyProvider) Call(ctx context.Context, _, _ string) (string, error) {
	f.calls++
	if f.fail {
		return "", fmt.Errorf("transport down")
	}
	return "ok", nil
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	inner := &flakyProvider{fail: true}
	p := NewBreakerProvider(inner, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := p.Call(ctx, "s", "u")
		require.Error(t, err)
	}
	assert.Equal(t, 3, inner.calls)

	// 熔断后不再触达推理端。
	_, err := p.Call(ctx, "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerSuccessKeepsClosed(t *testing.T) {
	inner := &flakyProvider{}
	p := NewBreakerProvider(inner, 3, time.Minute)
	for i := 0; i < 5; i++ {
		out, err := p.Call(context.Background(), "s", "u")
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	}
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	inner := &flakyProvider{fail: true}
	p := NewBreakerProvider(inner, 1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Call(ctx, "s", "u")
	require.Error(t, err)

	// 取消不计为故障：下一次仍触达推理端。
	_, _ = p.Call(context.Background(), "s", "u")
	assert.Equal(t, 2, inner.calls)
}
