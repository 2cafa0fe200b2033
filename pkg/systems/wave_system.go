package systems

import (
	"math"
	"time"

	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/ecs"
	"github.com/gonewx/blessingwave/pkg/utils"
	"github.com/jonboulle/clockwork"
)

// Spawner 生成单个条目
type Spawner interface {
	SpawnOne() (ecs.EntityID, bool)
}

// burst 一次进行中的爆发
type burst struct {
	start   time.Time
	size    float64 // 开始时的 waveSize
	spawned int
}

// WaveSystem 按缓动曲线分帧生成一批条目
//
// 累计生成数量 = floor(waveSize * (1 - (1-t)^exponent))，
// t 为经过时间占爆发窗口的比例。前段集中生成，后段逐渐放缓。
type WaveSystem struct {
	clock    clockwork.Clock
	spawner  Spawner
	window   time.Duration
	exponent float64
	waveSize float64

	bursts []*burst
}

// NewWaveSystem 创建波次系统
func NewWaveSystem(clock clockwork.Clock, spawner Spawner, cfg *config.WaveConfig) *WaveSystem {
	return &WaveSystem{
		clock:    clock,
		spawner:  spawner,
		window:   cfg.BurstWindow(),
		exponent: cfg.BurstExponent,
		waveSize: cfg.WaveSize,
	}
}

// BurstCount 爆发进行到 t 时的累计生成数量
func BurstCount(waveSize, t, exponent float64) int {
	if waveSize <= 0 {
		return 0
	}
	return int(math.Floor(waveSize * utils.EaseOutPow(t, exponent)))
}

// SetWaveSize 设置每次爆发的目标数量，只影响之后开始的爆发
func (w *WaveSystem) SetWaveSize(size float64) {
	w.waveSize = size
}

// WaveSize 返回当前的爆发目标数量
func (w *WaveSystem) WaveSize() float64 {
	return w.waveSize
}

// SpawnWave 开始一次新的爆发，由之后每帧的 Update 推进
func (w *WaveSystem) SpawnWave() {
	w.bursts = append(w.bursts, &burst{start: w.clock.Now(), size: w.waveSize})
}

// ActiveBursts 返回进行中的爆发数量
func (w *WaveSystem) ActiveBursts() int {
	return len(w.bursts)
}

// Cancel 放弃所有进行中的爆发，仅在卸载时调用
func (w *WaveSystem) Cancel() {
	w.bursts = w.bursts[:0]
}

// Update 推进所有爆发，每帧调用一次
func (w *WaveSystem) Update() {
	if len(w.bursts) == 0 {
		return
	}

	now := w.clock.Now()
	remaining := w.bursts[:0]
	for _, b := range w.bursts {
		t := 1.0
		if w.window > 0 {
			t = utils.Clamp01(float64(now.Sub(b.start)) / float64(w.window))
		}

		want := BurstCount(b.size, t, w.exponent)
		for b.spawned < want {
			// 舞台不可用时 SpawnOne 不生成，但仍计数，爆发照常结束
			w.spawner.SpawnOne()
			b.spawned++
		}

		if t < 1 {
			remaining = append(remaining, b)
		}
	}
	w.bursts = remaining
}
