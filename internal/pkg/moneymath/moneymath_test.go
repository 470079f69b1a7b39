package moneymath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulAvoidsFloatDrift(t *testing.T) {
	// 0.1+0.2 经典误差不应影响金额比较。
	assert.Equal(t, 0.3, Add(0.1, 0.2))
	assert.Equal(t, 140.0, Mul(200, 0.70))
	assert.Equal(t, 1300.0, Mul(1000, 1.30))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 350.0, Min(350, 5000, 400))
	assert.Equal(t, 5000.0, Max(350, 5000, 400))
	assert.Zero(t, Min())
}

func TestComparisons(t *testing.T) {
	assert.True(t, LTE(140, 140))
	assert.False(t, GT(1300, Mul(1000, 1.30)), "恰好 130% 不算超过")
	assert.True(t, GT(1300.01, 1300))
}

func TestNaNAndInfCollapseToZero(t *testing.T) {
	assert.Zero(t, Round2(math.NaN()))
	assert.Zero(t, Round2(math.Inf(1)))
}
