package systems

import (
	"log"
	"time"
)

// WaveCadence 控制挂载后的整体节奏
//
// Start：立即生成 initialSpawn 个条目，立即开始一次爆发，
// 之后每隔 interval 再开始一次爆发。
type WaveCadence struct {
	scheduler    *Scheduler
	spawner      Spawner
	wave         *WaveSystem
	initialSpawn int
	interval     time.Duration

	recurring TimerID
}

// NewWaveCadence 创建节奏控制器
func NewWaveCadence(scheduler *Scheduler, spawner Spawner, wave *WaveSystem, initialSpawn int, interval time.Duration) *WaveCadence {
	return &WaveCadence{
		scheduler:    scheduler,
		spawner:      spawner,
		wave:         wave,
		initialSpawn: initialSpawn,
		interval:     interval,
	}
}

// Start 开始节奏；已在运行时先停止
func (c *WaveCadence) Start() {
	c.Stop()

	for i := 0; i < c.initialSpawn; i++ {
		c.spawner.SpawnOne()
	}
	c.wave.SpawnWave()
	c.recurring = c.scheduler.Every(c.interval, c.wave.SpawnWave)
}

// Restart 文本池或参数变化时重新订阅
// 只取消旧的周期计时器；进行中的爆发按原目标数量继续到结束
func (c *WaveCadence) Restart() {
	log.Printf("[WaveCadence] restart (waveSize=%.1f)", c.wave.WaveSize())
	c.Start()
}

// Stop 取消周期计时器
func (c *WaveCadence) Stop() {
	if c.recurring != 0 {
		c.scheduler.Cancel(c.recurring)
		c.recurring = 0
	}
}

// Running 返回周期计时器是否存在
func (c *WaveCadence) Running() bool {
	return c.recurring != 0
}
