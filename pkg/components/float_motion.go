package components

// FloatMotionComponent 漂浮动画参数（舞台坐标，像素）
//
// 动画从 (StartX, StartY) 移动到 (StartX+DriftX, StartY-DriftY)，
// 缩放与旋转全程保持不变。
type FloatMotionComponent struct {
	StartX, StartY float64
	DriftX, DriftY float64 // DriftY 为向上的距离
	Scale          float64
	RotationDeg    float64
}
