package components

import "time"

// LifecycleState 祝福条目的生命周期状态
// 只能单向转换：Created → Animating → Removed
type LifecycleState int

const (
	// StateCreated 已生成，尚未过起始延迟
	StateCreated LifecycleState = iota
	// StateAnimating 动画进行中
	StateAnimating
	// StateRemoved 已移除（终态）
	StateRemoved
)

// String 返回状态名称
func (s LifecycleState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAnimating:
		return "animating"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// LifecycleComponent 管理祝福条目的时间线
type LifecycleComponent struct {
	State     LifecycleState
	SpawnedAt time.Time
	Delay     time.Duration // 动画起始延迟
	Duration  time.Duration // 动画时长（即生命周期）
	Progress  float64       // 动画进度 [0, 1]

	// RemovalTimer 移除计时器的编号，驱逐时用于取消
	RemovalTimer uint64
}

// Advance 将状态推进到 next，不允许回退
// 返回 false 表示转换非法（目标状态不晚于当前状态）
func (l *LifecycleComponent) Advance(next LifecycleState) bool {
	if next <= l.State {
		return false
	}
	l.State = next
	return true
}
