package systems

import (
	"testing"
	"time"

	"github.com/gonewx/blessingwave/pkg/components"
	"github.com/gonewx/blessingwave/pkg/ecs"
	"github.com/jonboulle/clockwork"
)

// staticLive 固定的同屏列表
type staticLive []ecs.EntityID

func (s staticLive) Live() []ecs.EntityID { return s }

func TestLifecycleProgress(t *testing.T) {
	clock := clockwork.NewFakeClock()
	em := ecs.NewEntityManager()

	id := em.CreateEntity()
	lifecycle := &components.LifecycleComponent{
		State:     components.StateCreated,
		SpawnedAt: clock.Now(),
		Delay:     200 * time.Millisecond,
		Duration:  8 * time.Second,
	}
	em.AddComponent(id, lifecycle)

	system := NewLifecycleSystem(em, clock, staticLive{id})

	// 延迟期间保持 Created，进度为 0
	clock.Advance(100 * time.Millisecond)
	system.Update()
	if lifecycle.State != components.StateCreated || lifecycle.Progress != 0 {
		t.Errorf("During delay: state=%s progress=%f", lifecycle.State, lifecycle.Progress)
	}

	clock.Advance(100 * time.Millisecond)
	system.Update()
	if lifecycle.State != components.StateAnimating {
		t.Errorf("After delay: state=%s, want animating", lifecycle.State)
	}

	clock.Advance(4 * time.Second)
	system.Update()
	if lifecycle.Progress != 0.5 {
		t.Errorf("Halfway progress = %f, want 0.5", lifecycle.Progress)
	}

	clock.Advance(10 * time.Second)
	system.Update()
	if lifecycle.Progress != 1 {
		t.Errorf("Progress should clamp to 1, got %f", lifecycle.Progress)
	}
	if lifecycle.State != components.StateAnimating {
		t.Errorf("Only the removal timer moves an item to removed, got %s", lifecycle.State)
	}
}

func TestLifecycleSkipsRemoved(t *testing.T) {
	clock := clockwork.NewFakeClock()
	em := ecs.NewEntityManager()

	id := em.CreateEntity()
	lifecycle := &components.LifecycleComponent{
		State:     components.StateRemoved,
		SpawnedAt: clock.Now(),
		Duration:  time.Second,
	}
	em.AddComponent(id, lifecycle)

	system := NewLifecycleSystem(em, clock, staticLive{id, 999})
	clock.Advance(500 * time.Millisecond)
	system.Update()

	if lifecycle.State != components.StateRemoved || lifecycle.Progress != 0 {
		t.Errorf("Removed item must not be updated: %s %f", lifecycle.State, lifecycle.Progress)
	}
}
