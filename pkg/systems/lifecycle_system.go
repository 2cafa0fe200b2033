package systems

import (
	"github.com/gonewx/blessingwave/pkg/components"
	"github.com/gonewx/blessingwave/pkg/ecs"
	"github.com/gonewx/blessingwave/pkg/utils"
	"github.com/jonboulle/clockwork"
)

// LiveSource 提供同屏条目列表
type LiveSource interface {
	Live() []ecs.EntityID
}

// LifecycleSystem 推进祝福条目的动画进度
//
// Created → Animating 在起始延迟结束时发生；
// Animating → Removed 由移除计时器触发（见 BlessingSpawnSystem.Remove）。
type LifecycleSystem struct {
	entityManager *ecs.EntityManager
	clock         clockwork.Clock
	live          LiveSource
}

// NewLifecycleSystem 创建生命周期系统
func NewLifecycleSystem(em *ecs.EntityManager, clock clockwork.Clock, live LiveSource) *LifecycleSystem {
	return &LifecycleSystem{
		entityManager: em,
		clock:         clock,
		live:          live,
	}
}

// Update 更新所有同屏条目的状态与进度
func (s *LifecycleSystem) Update() {
	now := s.clock.Now()

	for _, id := range s.live.Live() {
		lifecycle, ok := ecs.GetComponent[*components.LifecycleComponent](s.entityManager, id)
		if !ok || lifecycle.State == components.StateRemoved {
			continue
		}

		elapsed := now.Sub(lifecycle.SpawnedAt) - lifecycle.Delay
		if elapsed < 0 {
			lifecycle.Progress = 0
			continue
		}

		if lifecycle.State == components.StateCreated {
			lifecycle.Advance(components.StateAnimating)
		}

		if lifecycle.Duration <= 0 {
			lifecycle.Progress = 1
			continue
		}
		lifecycle.Progress = utils.Clamp01(float64(elapsed) / float64(lifecycle.Duration))
	}
}
