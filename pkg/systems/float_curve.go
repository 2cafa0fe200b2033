package systems

import (
	"github.com/gonewx/blessingwave/pkg/components"
	"github.com/gonewx/blessingwave/pkg/utils"
)

// FloatKeyframes 透明度关键帧
//
//	0%            opacity 0
//	FadeInEnd     opacity 1
//	FadeOutStart  opacity 1
//	100%          opacity 0
//
// 每段之间使用 ease-in-out 插值。
type FloatKeyframes struct {
	FadeInEnd    float64
	FadeOutStart float64
}

// DefaultFloatKeyframes 12% 淡入，85% 开始淡出
var DefaultFloatKeyframes = FloatKeyframes{FadeInEnd: 0.12, FadeOutStart: 0.85}

// FloatFrame 某一时刻的绘制参数（舞台坐标）
type FloatFrame struct {
	X, Y        float64
	Opacity     float64
	Scale       float64
	RotationDeg float64
}

// Opacity 返回进度 p 时的透明度
func (k FloatKeyframes) Opacity(p float64) float64 {
	p = utils.Clamp01(p)
	switch {
	case p < k.FadeInEnd:
		return utils.EaseInOut(p / k.FadeInEnd)
	case p <= k.FadeOutStart:
		return 1
	default:
		return 1 - utils.EaseInOut((p-k.FadeOutStart)/(1-k.FadeOutStart))
	}
}

// FloatFrameAt 计算条目在进度 p 时的位置与透明度
//
// 位置从起点插值到 (x+dx, y-dy)，缩放和旋转不变。
// started 为 false（仍在起始延迟中）时条目不可见。
func FloatFrameAt(p float64, started bool, m *components.FloatMotionComponent, k FloatKeyframes) FloatFrame {
	frame := FloatFrame{
		X:           m.StartX,
		Y:           m.StartY,
		Scale:       m.Scale,
		RotationDeg: m.RotationDeg,
	}
	if !started {
		return frame
	}

	e := utils.EaseInOut(p)
	frame.X = utils.Lerp(m.StartX, m.StartX+m.DriftX, e)
	frame.Y = utils.Lerp(m.StartY, m.StartY-m.DriftY, e)
	frame.Opacity = k.Opacity(p)
	return frame
}
