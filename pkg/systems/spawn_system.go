package systems

import (
	"image/color"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gonewx/blessingwave/pkg/blessing"
	"github.com/gonewx/blessingwave/pkg/components"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/ecs"
)

// StageMeasurer 返回当前舞台尺寸；舞台尚未测量时返回 false
type StageMeasurer func() (config.StageRect, bool)

// BlessingSpawnSystem 生成祝福条目并维护同屏列表
//
// 同屏列表按插入顺序保存，长度不超过 MaxLive；
// 满员时先驱逐最早插入的条目（FIFO），再追加新条目。
type BlessingSpawnSystem struct {
	entityManager *ecs.EntityManager
	scheduler     *Scheduler
	cfg           *config.WaveConfig
	rng           *rand.Rand
	measure       StageMeasurer
	segmenter     blessing.Segmenter

	palette    []color.RGBA
	pool       blessing.Pool
	breakEvery int

	live []ecs.EntityID
}

// NewBlessingSpawnSystem 创建生成系统
// cfg 必须已经通过 Validate
func NewBlessingSpawnSystem(
	em *ecs.EntityManager,
	scheduler *Scheduler,
	cfg *config.WaveConfig,
	rng *rand.Rand,
	measure StageMeasurer,
) *BlessingSpawnSystem {
	palette, err := cfg.Colors()
	if err != nil || len(palette) == 0 {
		log.Printf("[BlessingSpawnSystem] Warning: invalid palette (%v), using white", err)
		palette = []color.RGBA{{R: 255, G: 255, B: 255, A: 255}}
	}

	segmenter, err := blessing.SegmenterByName(cfg.Segmentation)
	if err != nil {
		log.Printf("[BlessingSpawnSystem] Warning: %v, using grapheme segmentation", err)
		segmenter = blessing.GraphemeSegmenter
	}

	return &BlessingSpawnSystem{
		entityManager: em,
		scheduler:     scheduler,
		cfg:           cfg,
		rng:           rng,
		measure:       measure,
		segmenter:     segmenter,
		palette:       palette,
		pool:          blessing.InitialPool(),
		breakEvery:    cfg.BreakEvery,
		live:          make([]ecs.EntityID, 0, cfg.MaxLive),
	}
}

// SetPool 替换祝福文本池，空池被忽略
func (s *BlessingSpawnSystem) SetPool(pool blessing.Pool) {
	if len(pool) == 0 {
		return
	}
	s.pool = pool
}

// Pool 返回当前文本池
func (s *BlessingSpawnSystem) Pool() blessing.Pool {
	return s.pool
}

// SetBreakEvery 设置强制换行的字符数，只影响之后生成的条目
func (s *BlessingSpawnSystem) SetBreakEvery(n int) {
	if n < 1 {
		n = 1
	}
	s.breakEvery = n
}

// BreakEvery 返回当前强制换行的字符数
func (s *BlessingSpawnSystem) BreakEvery() int {
	return s.breakEvery
}

// Live 按插入顺序返回同屏条目
func (s *BlessingSpawnSystem) Live() []ecs.EntityID {
	return s.live
}

// LiveCount 返回同屏条目数量
func (s *BlessingSpawnSystem) LiveCount() int {
	return len(s.live)
}

// SpawnOne 生成一条祝福
// 舞台尚未测量时静默返回 (0, false)
func (s *BlessingSpawnSystem) SpawnOne() (ecs.EntityID, bool) {
	if s.measure == nil {
		return 0, false
	}
	stage, ok := s.measure()
	if !ok {
		return 0, false
	}

	if len(s.live) >= s.cfg.MaxLive {
		s.Remove(s.live[0])
	}

	text := s.pool[s.rng.IntN(len(s.pool))]

	motion := &components.FloatMotionComponent{
		StartX:      s.randRange(s.cfg.MarginLeft, stage.W-s.cfg.MarginRight),
		StartY:      s.randRange(s.cfg.MarginTop, stage.H-s.cfg.MarginBottom),
		DriftX:      s.randRange(-stage.W*s.cfg.DriftXFraction, stage.W*s.cfg.DriftXFraction),
		DriftY:      s.randRange(stage.H*s.cfg.DriftYMinFraction, stage.H*s.cfg.DriftYMaxFraction),
		Scale:       s.randRange(s.cfg.ScaleMin, s.cfg.ScaleMax),
		RotationDeg: s.randRange(-s.cfg.RotationMaxDeg, s.cfg.RotationMaxDeg),
	}

	paletteIdx := s.rng.IntN(len(s.palette))
	graphemes := len(s.segmenter(text))
	style := &components.BlessingStyleComponent{
		Color:  s.palette[paletteIdx],
		FontEm: blessing.FontEmForLength(graphemes),
	}
	if paletteIdx < len(s.cfg.Palette) {
		style.ColorHex = s.cfg.Palette[paletteIdx]
	}

	lifeMs := s.randRange(float64(s.cfg.MinLifeMs), float64(s.cfg.MaxLifeMs))
	delayMs := math.Floor(s.randRange(0, float64(s.cfg.MaxDelayMs)))
	life := time.Duration(lifeMs * float64(time.Millisecond))

	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.BlessingComponent{
		Text:          text,
		Nodes:         blessing.WrapIntoNodes(text, s.breakEvery, s.segmenter),
		GraphemeCount: graphemes,
	})
	s.entityManager.AddComponent(id, motion)
	s.entityManager.AddComponent(id, style)

	lifecycle := &components.LifecycleComponent{
		State:     components.StateCreated,
		SpawnedAt: s.scheduler.Clock().Now(),
		Delay:     time.Duration(delayMs) * time.Millisecond,
		Duration:  life,
	}
	s.entityManager.AddComponent(id, lifecycle)

	s.live = append(s.live, id)

	timer := s.scheduler.AfterFunc(life+s.cfg.RemovalGrace(), func() {
		s.Remove(id)
	})
	lifecycle.RemovalTimer = uint64(timer)

	return id, true
}

// Remove 将条目移出同屏列表并标记删除
// 条目不存在时返回 false
func (s *BlessingSpawnSystem) Remove(id ecs.EntityID) bool {
	idx := -1
	for i, liveID := range s.live {
		if liveID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.live = append(s.live[:idx], s.live[idx+1:]...)

	if lifecycle, ok := ecs.GetComponent[*components.LifecycleComponent](s.entityManager, id); ok {
		lifecycle.Advance(components.StateRemoved)
		// 由计时器触发时 Cancel 返回 false
		s.scheduler.Cancel(TimerID(lifecycle.RemovalTimer))
	}
	s.entityManager.DestroyEntity(id)
	return true
}

// Reset 移除所有同屏条目并取消它们的计时器
func (s *BlessingSpawnSystem) Reset() {
	for len(s.live) > 0 {
		s.Remove(s.live[0])
	}
}

// randRange 返回 [lo, hi) 内的均匀随机数
func (s *BlessingSpawnSystem) randRange(lo, hi float64) float64 {
	return s.rng.Float64()*(hi-lo) + lo
}
