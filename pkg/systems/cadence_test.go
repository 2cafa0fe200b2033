package systems

import (
	"testing"
	"time"

	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/jonboulle/clockwork"
)

func newTestCadence() (*clockwork.FakeClock, *Scheduler, *countingSpawner, *WaveSystem, *WaveCadence) {
	clock := clockwork.NewFakeClock()
	scheduler := NewScheduler(clock)
	spawner := &countingSpawner{ok: true}
	cfg := config.DefaultWaveConfig()
	wave := NewWaveSystem(clock, spawner, cfg)
	cadence := NewWaveCadence(scheduler, spawner, wave, cfg.InitialSpawn, cfg.WaveInterval())
	return clock, scheduler, spawner, wave, cadence
}

func TestCadenceStart(t *testing.T) {
	_, scheduler, spawner, wave, cadence := newTestCadence()

	cadence.Start()

	if spawner.calls != 10 {
		t.Errorf("Expected 10 immediate spawns, got %d", spawner.calls)
	}
	if wave.ActiveBursts() != 1 {
		t.Errorf("Expected one burst started immediately, got %d", wave.ActiveBursts())
	}
	if !cadence.Running() || scheduler.Pending() != 1 {
		t.Errorf("Expected one recurring timer, pending=%d", scheduler.Pending())
	}
}

func TestCadenceRecurringWaves(t *testing.T) {
	clock, scheduler, _, wave, cadence := newTestCadence()
	cadence.Start()

	clock.Advance(1400 * time.Millisecond)
	wave.Update()
	if wave.ActiveBursts() != 0 {
		t.Fatalf("First burst should be done, active=%d", wave.ActiveBursts())
	}

	clock.Advance(2600 * time.Millisecond)
	scheduler.Poll()
	if wave.ActiveBursts() != 1 {
		t.Errorf("Expected a new burst every 4s, active=%d", wave.ActiveBursts())
	}
}

func TestCadenceRestart(t *testing.T) {
	_, scheduler, spawner, wave, cadence := newTestCadence()
	cadence.Start()

	cadence.Restart()
	cadence.Restart()

	if scheduler.Pending() != 1 {
		t.Errorf("Expected exactly one recurring timer after restarts, got %d", scheduler.Pending())
	}
	// 每次启动各开始一次爆发，旧爆发不被取消
	if wave.ActiveBursts() != 3 {
		t.Errorf("Restart should keep in-flight bursts, got %d", wave.ActiveBursts())
	}
	if spawner.calls != 30 {
		t.Errorf("Each start spawns the initial batch, got %d", spawner.calls)
	}
}

func TestCadenceRestartLetsBurstsFinish(t *testing.T) {
	clock, _, spawner, wave, cadence := newTestCadence()
	cadence.Start()

	clock.Advance(200 * time.Millisecond)
	wave.Update()
	beforeRestart := spawner.calls - 10
	if beforeRestart <= 0 || beforeRestart >= 18 {
		t.Fatalf("Expected a partial first burst, got %d", beforeRestart)
	}

	cadence.Restart()
	clock.Advance(1400 * time.Millisecond)
	wave.Update()

	// 两次初始批次 + 两次完整爆发
	if spawner.calls != 10+10+18+18 {
		t.Errorf("Expected 56 spawns after both bursts, got %d", spawner.calls)
	}
	if wave.ActiveBursts() != 0 {
		t.Errorf("Both bursts should be done, active=%d", wave.ActiveBursts())
	}
}

func TestCadenceStop(t *testing.T) {
	clock, scheduler, _, wave, cadence := newTestCadence()
	cadence.Start()
	wave.Cancel()

	cadence.Stop()
	if cadence.Running() || scheduler.Pending() != 0 {
		t.Errorf("Stop should cancel the recurring timer, pending=%d", scheduler.Pending())
	}

	clock.Advance(10 * time.Second)
	scheduler.Poll()
	if wave.ActiveBursts() != 0 {
		t.Error("No bursts should start after Stop")
	}
}
