package moneymath

// 中文说明：
// 金额运算统一走 decimal，避免 float 累积误差影响阈值比较。
// 输入输出仍用 float64（与 JSON 字段保持一致），仅中间计算用 decimal。

import (
	"math"

	"github.com/shopspring/decimal"
)

var decZero = decimal.Zero

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decZero
	}
	return decimal.NewFromFloat(v)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Mul 金额乘系数，保留两位小数。
func Mul(v, ratio float64) float64 {
	return toFloat(fromFloat(v).Mul(fromFloat(ratio)).Round(2))
}

// Add 金额相加，保留两位小数。
func Add(a, b float64) float64 {
	return toFloat(fromFloat(a).Add(fromFloat(b)).Round(2))
}

// Sub 金额相减，保留两位小数。
func Sub(a, b float64) float64 {
	return toFloat(fromFloat(a).Sub(fromFloat(b)).Round(2))
}

// Min 多个金额取最小值。
func Min(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	min := fromFloat(vals[0])
	for _, v := range vals[1:] {
		d := fromFloat(v)
		if d.Cmp(min) < 0 {
			min = d
		}
	}
	return toFloat(min)
}

// Max 多个金额取最大值。
func Max(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	max := fromFloat(vals[0])
	for _, v := range vals[1:] {
		d := fromFloat(v)
		if d.Cmp(max) > 0 {
			max = d
		}
	}
	return toFloat(max)
}

func Cmp(a, b float64) int { return fromFloat(a).Cmp(fromFloat(b)) }

func LTE(a, b float64) bool { return Cmp(a, b) <= 0 }
func GTE(a, b float64) bool { return Cmp(a, b) >= 0 }
func LT(a, b float64) bool  { return Cmp(a, b) < 0 }
func GT(a, b float64) bool  { return Cmp(a, b) > 0 }

// Round2 保留两位小数。
func Round2(v float64) float64 {
	return toFloat(fromFloat(v).Round(2))
}
