package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/ 与 CSS cubic-bezier 定义

// Clamp01 将 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// EaseOutPow 幂次缓出
// 特点：开始快，结束慢；exponent 越大前段越集中
// 公式：f(t) = 1 - (1-t)^exponent
func EaseOutPow(t, exponent float64) float64 {
	t = Clamp01(t)
	return 1 - math.Pow(1-t, exponent)
}

// CubicBezier 返回 CSS cubic-bezier(x1, y1, x2, y2) 定义的缓动函数
//
// 先用牛顿迭代根据 x 求参数 s，失败时退回二分法，再计算 y(s)。
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	const epsilon = 1e-7

	solve := func(x float64) float64 {
		s := x
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - x
			if math.Abs(dx) < epsilon {
				return s
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}

		lo, hi := 0.0, 1.0
		s = x
		for lo < hi {
			v := sampleX(s)
			if math.Abs(v-x) < epsilon {
				return s
			}
			if x > v {
				lo = s
			} else {
				hi = s
			}
			if hi-lo < epsilon {
				break
			}
			s = (hi-lo)/2 + lo
		}
		return s
	}

	return func(t float64) float64 {
		t = Clamp01(t)
		if t == 0 || t == 1 {
			return t
		}
		return sampleY(solve(t))
	}
}

// EaseInOut CSS 关键字 ease-in-out，即 cubic-bezier(0.42, 0, 0.58, 1)
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
