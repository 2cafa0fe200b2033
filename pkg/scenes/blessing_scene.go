package scenes

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gonewx/blessingwave/pkg/blessing"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/ecs"
	"github.com/gonewx/blessingwave/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jonboulle/clockwork"
)

// BlessingSceneOptions 构造 BlessingScene 的参数
//
// 零值字段使用默认值：Config 默认配置，Clock 真实时钟，
// Source 内置数据，Rand 随机种子，屏幕尺寸为窗口默认尺寸。
// Fonts 为 nil 时场景不绘制条目（用于无头运行和测试）。
type BlessingSceneOptions struct {
	Config *config.WaveConfig
	Source blessing.Source
	Clock  clockwork.Clock
	Rand   *rand.Rand
	Fonts  systems.FaceProvider

	BreakEvery int     // 0 表示使用 Config.BreakEvery
	WaveSize   float64 // 0 表示使用 Config.WaveSize

	ScreenWidth  int
	ScreenHeight int
}

// BlessingScene 祝福墙场景
//
// 挂载时异步加载文本池，同时立即开始生成条目；
// 加载结果到达后替换文本池并重新开始节奏。
// 卸载后所有计时器被取消，迟到的加载结果被丢弃。
type BlessingScene struct {
	cfg           *config.WaveConfig
	source        blessing.Source
	clock         clockwork.Clock
	entityManager *ecs.EntityManager

	scheduler *systems.Scheduler
	spawn     *systems.BlessingSpawnSystem
	wave      *systems.WaveSystem
	cadence   *systems.WaveCadence
	lifecycle *systems.LifecycleSystem
	render    *systems.BlessingRenderSystem

	stage config.StageRect

	loadCh     <-chan blessing.LoadResult
	loadStatus blessing.LoadStatus
	loaded     bool
	alive      bool
}

// NewBlessingScene 创建场景，调用 OnEnter 后开始运行
func NewBlessingScene(opts BlessingSceneOptions) *BlessingScene {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultWaveConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	source := opts.Source
	if source == nil {
		source = &blessing.EmbeddedSource{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	screenW, screenH := opts.ScreenWidth, opts.ScreenHeight
	if screenW <= 0 || screenH <= 0 {
		screenW, screenH = config.GameWindowWidth, config.GameWindowHeight
	}

	s := &BlessingScene{
		cfg:           cfg,
		source:        source,
		clock:         clock,
		entityManager: ecs.NewEntityManager(),
		stage:         config.StageBounds(screenW, screenH),
	}

	s.scheduler = systems.NewScheduler(clock)
	s.spawn = systems.NewBlessingSpawnSystem(s.entityManager, s.scheduler, cfg, rng, s.measureStage)
	s.wave = systems.NewWaveSystem(clock, s.spawn, cfg)
	s.cadence = systems.NewWaveCadence(s.scheduler, s.spawn, s.wave, cfg.InitialSpawn, cfg.WaveInterval())
	s.lifecycle = systems.NewLifecycleSystem(s.entityManager, clock, s.spawn)
	if opts.Fonts != nil {
		s.render = systems.NewBlessingRenderSystem(s.entityManager, s.spawn, opts.Fonts, cfg)
	}

	if opts.BreakEvery > 0 {
		s.spawn.SetBreakEvery(opts.BreakEvery)
	}
	if opts.WaveSize > 0 {
		s.wave.SetWaveSize(opts.WaveSize)
	}

	return s
}

// measureStage 返回当前舞台，尺寸为 0 时视为未测量
func (s *BlessingScene) measureStage() (config.StageRect, bool) {
	if s.stage.W <= 0 || s.stage.H <= 0 {
		return config.StageRect{}, false
	}
	return s.stage, true
}

// OnEnter 挂载：开始加载文本池并启动节奏
func (s *BlessingScene) OnEnter() {
	s.alive = true
	s.loaded = false
	s.loadCh = blessing.LoadAsync(context.Background(), s.source, s.cfg.FetchTimeout())
	s.cadence.Start()
	log.Printf("[BlessingScene] mounted (breakEvery=%d, waveSize=%.1f)", s.spawn.BreakEvery(), s.wave.WaveSize())
}

// OnExit 卸载：取消所有计时器和进行中的爆发
func (s *BlessingScene) OnExit() {
	if !s.alive {
		return
	}
	s.alive = false
	s.loadCh = nil
	s.cadence.Stop()
	s.wave.Cancel()
	s.spawn.Reset()
	s.scheduler.CancelAll()
	s.entityManager.Clear()
	log.Printf("[BlessingScene] unmounted")
}

// Update 推进一帧
//
// 顺序：加载结果 → 到期计时器 → 爆发 → 动画进度 → 清理实体
func (s *BlessingScene) Update(deltaTime float64) {
	if !s.alive {
		return
	}

	s.pollLoad()
	s.scheduler.Poll()
	s.wave.Update()
	s.lifecycle.Update()
	s.entityManager.RemoveMarkedEntities()
}

// pollLoad 非阻塞地读取加载结果
func (s *BlessingScene) pollLoad() {
	if s.loadCh == nil {
		return
	}
	select {
	case result := <-s.loadCh:
		s.loadCh = nil
		s.applyLoadResult(result)
	default:
	}
}

func (s *BlessingScene) applyLoadResult(result blessing.LoadResult) {
	if !s.alive {
		return
	}
	s.loaded = true
	s.loadStatus = result.Status
	s.spawn.SetPool(result.Pool)
	log.Printf("[BlessingScene] pool ready: %d messages (%s)", len(result.Pool), result.Status)
	s.cadence.Restart()
}

// Draw 绘制背景、舞台和同屏条目
func (s *BlessingScene) Draw(screen *ebiten.Image) {
	if s.render == nil {
		return
	}
	s.render.Draw(screen, s.stage)
}

// SetParams 修改换行字符数和每波数量；有变化时重新开始节奏
func (s *BlessingScene) SetParams(breakEvery int, waveSize float64) {
	if breakEvery < 1 {
		breakEvery = 1
	}
	if waveSize < 0 {
		waveSize = 0
	}
	if breakEvery == s.spawn.BreakEvery() && waveSize == s.wave.WaveSize() {
		return
	}
	s.spawn.SetBreakEvery(breakEvery)
	s.wave.SetWaveSize(waveSize)
	if s.alive {
		s.cadence.Restart()
	}
}

// Stage 返回当前舞台
func (s *BlessingScene) Stage() config.StageRect {
	return s.stage
}

// BreakEvery 返回当前换行字符数
func (s *BlessingScene) BreakEvery() int {
	return s.spawn.BreakEvery()
}

// WaveSize 返回当前每波数量
func (s *BlessingScene) WaveSize() float64 {
	return s.wave.WaveSize()
}

// LiveCount 返回同屏条目数量
func (s *BlessingScene) LiveCount() int {
	return s.spawn.LiveCount()
}

// Live 按插入顺序返回同屏条目
func (s *BlessingScene) Live() []ecs.EntityID {
	return s.spawn.Live()
}

// EntityManager 返回场景的实体管理器
func (s *BlessingScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Pool 返回当前文本池
func (s *BlessingScene) Pool() blessing.Pool {
	return s.spawn.Pool()
}

// LoadStatus 返回加载结果；尚未完成时第二个返回值为 false
func (s *BlessingScene) LoadStatus() (blessing.LoadStatus, bool) {
	return s.loadStatus, s.loaded
}

// PendingTimers 返回计划中的计时器数量
func (s *BlessingScene) PendingTimers() int {
	return s.scheduler.Pending()
}

// Alive 返回场景是否处于挂载状态
func (s *BlessingScene) Alive() bool {
	return s.alive
}
