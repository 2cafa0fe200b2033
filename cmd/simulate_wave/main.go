// simulate_wave 在虚拟时钟上无头运行祝福墙，输出同屏条目数量随时间的变化
//
// 用法：
//
//	go run ./cmd/simulate_wave --duration 30s --wave-size 18 --break-every 14
//	go run ./cmd/simulate_wave --source https://example.com/input.json --verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gonewx/blessingwave/pkg/blessing"
	"github.com/gonewx/blessingwave/pkg/components"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/ecs"
	"github.com/gonewx/blessingwave/pkg/scenes"
	"github.com/jonboulle/clockwork"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	source     = flag.String("source", "data/blessings.json", "祝福数据来源（URL 或文件路径）")
	configPath = flag.String("config", "data/wave_config.yaml", "波次配置 YAML 文件，不存在时使用默认配置")
	duration   = flag.Duration("duration", 20*time.Second, "模拟时长")
	step       = flag.Duration("step", time.Second/60, "每帧推进的虚拟时间")
	every      = flag.Duration("every", 500*time.Millisecond, "输出间隔")
	breakEvery = flag.Int("break-every", 0, "每行字素数，0 表示使用配置")
	waveSize   = flag.Float64("wave-size", 0, "每波条目数，0 表示使用配置")
	seed       = flag.Uint64("seed", 1, "随机种子")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if *step <= 0 {
		fmt.Fprintln(os.Stderr, "--step must be > 0")
		os.Exit(2)
	}

	cfg, err := config.LoadWaveConfig(*configPath)
	if err != nil {
		fmt.Printf("使用默认配置 (%v)\n", err)
		cfg = config.DefaultWaveConfig()
	}

	clock := clockwork.NewFakeClock()
	scene := scenes.NewBlessingScene(scenes.BlessingSceneOptions{
		Config:     cfg,
		Source:     blessing.NewSource(*source),
		Clock:      clock,
		Rand:       rand.New(rand.NewPCG(*seed, *seed^0x5851f42d4c957f2d)),
		BreakEvery: *breakEvery,
		WaveSize:   *waveSize,
	})

	fmt.Println("=== 祝福墙模拟 ===")
	fmt.Printf("breakEvery=%d waveSize=%.1f maxLive=%d interval=%v burst=%v\n\n",
		scene.BreakEvery(), scene.WaveSize(), cfg.MaxLive, cfg.WaveInterval(), cfg.BurstWindow())

	scene.OnEnter()
	defer scene.OnExit()
	fmt.Printf("挂载后同屏条目: %d\n", scene.LiveCount())

	// 等待加载完成（真实时间），期间虚拟时钟不前进
	deadline := time.Now().Add(cfg.FetchTimeout() + time.Second)
	for {
		scene.Update(0)
		if status, ok := scene.LoadStatus(); ok {
			fmt.Printf("数据加载: %s, %d 条\n", status, len(scene.Pool()))
			break
		}
		if time.Now().After(deadline) {
			fmt.Println("数据加载超时")
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	fmt.Printf("重新开始后同屏条目: %d\n\n", scene.LiveCount())

	fmt.Printf("%8s  %6s  %8s  %8s  %8s\n", "时间", "同屏", "动画中", "等待中", "计时器")
	var elapsed, lastPrint time.Duration
	peak := scene.LiveCount()
	for elapsed < *duration {
		clock.Advance(*step)
		elapsed += *step
		scene.Update(step.Seconds())
		peak = max(peak, scene.LiveCount())

		if elapsed-lastPrint >= *every {
			animating, waiting := countStates(scene)
			fmt.Printf("%7.2fs  %6d  %8d  %8d  %8d\n",
				elapsed.Seconds(), scene.LiveCount(), animating, waiting, scene.PendingTimers())
			lastPrint = elapsed
		}
	}

	fmt.Printf("\n峰值同屏条目: %d (上限 %d)\n", peak, cfg.MaxLive)
	printSample(scene)
}

func countStates(scene *scenes.BlessingScene) (animating, waiting int) {
	em := scene.EntityManager()
	for _, id := range scene.Live() {
		lifecycle, ok := ecs.GetComponent[*components.LifecycleComponent](em, id)
		if !ok {
			continue
		}
		switch lifecycle.State {
		case components.StateAnimating:
			animating++
		case components.StateCreated:
			waiting++
		}
	}
	return animating, waiting
}

// printSample 打印最新生成的几个条目
func printSample(scene *scenes.BlessingScene) {
	live := scene.Live()
	if len(live) == 0 {
		return
	}
	fmt.Println("\n--- 最新条目 ---")
	em := scene.EntityManager()
	for _, id := range live[max(0, len(live)-3):] {
		content, _ := ecs.GetComponent[*components.BlessingComponent](em, id)
		style, _ := ecs.GetComponent[*components.BlessingStyleComponent](em, id)
		lifecycle, _ := ecs.GetComponent[*components.LifecycleComponent](em, id)
		if content == nil || style == nil || lifecycle == nil {
			continue
		}
		fmt.Printf("#%d %s %.1fem 进度=%.2f\n", id, style.ColorHex, style.FontEm, lifecycle.Progress)
		for _, line := range blessing.Lines(content.Nodes) {
			fmt.Printf("    %s\n", line)
		}
	}
}
