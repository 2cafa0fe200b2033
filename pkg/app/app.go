// Package app 提供祝福墙应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/blessingwave/pkg/blessing"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/game"
	"github.com/gonewx/blessingwave/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Wave 波次配置，为 nil 时使用默认配置
	Wave *config.WaveConfig
	// Source 祝福数据来源，为 nil 时使用内置数据
	Source blessing.Source
	// FontPath 字体文件，为空时使用内置字体
	FontPath string
	// Settings 设置管理器，为 nil 时参数修改不持久化
	Settings *game.SettingsManager

	// BreakEvery / WaveSize 启动参数，0 表示使用 Wave 中的默认值
	BreakEvery int
	WaveSize   float64
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	resourceManager          *game.ResourceManager
	settings                 *game.SettingsManager
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	breakEvery int
	waveSize   float64
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	waveCfg := cfg.Wave
	if waveCfg == nil {
		waveCfg = config.DefaultWaveConfig()
	}
	if err := waveCfg.Validate(); err != nil {
		return nil, fmt.Errorf("波次配置无效: %w", err)
	}

	resourceManager := game.NewResourceManager()
	if err := resourceManager.SetFontPath(cfg.FontPath); err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	a := &App{
		resourceManager: resourceManager,
		settings:        cfg.Settings,
		breakEvery:      cfg.BreakEvery,
		waveSize:        cfg.WaveSize,
	}
	if a.breakEvery <= 0 {
		a.breakEvery = waveCfg.BreakEvery
	}
	if a.waveSize <= 0 {
		a.waveSize = waveCfg.WaveSize
	}

	source := cfg.Source
	if source == nil {
		source = blessing.NewSource("")
	}

	// 创建场景管理器；R 键通过工厂函数重新挂载场景
	a.sceneManager = game.NewSceneManager()
	a.sceneManager.SetSceneFactory(func() game.Scene {
		return scenes.NewBlessingScene(scenes.BlessingSceneOptions{
			Config:       waveCfg,
			Source:       source,
			Fonts:        resourceManager,
			BreakEvery:   a.breakEvery,
			WaveSize:     a.waveSize,
			ScreenWidth:  config.GameWindowWidth,
			ScreenHeight: config.GameWindowHeight,
		})
	})
	a.sceneManager.Reload()

	log.Printf("[App] Started (breakEvery=%d, waveSize=%.1f)", a.breakEvery, a.waveSize)
	return a, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.handleParamKeys()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		log.Printf("[App] Reloading blessing data")
		a.sceneManager.Reload()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}
	if a.settings != nil {
		a.settings.SetFullscreen(ebiten.IsFullscreen())
	}
}

// handleParamKeys 处理 +/- 和 [/] 调整参数
func (a *App) handleParamKeys() {
	breakEvery, waveSize := a.breakEvery, a.waveSize

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		waveSize++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		waveSize = max(waveSize-1, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		breakEvery++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		breakEvery = max(breakEvery-1, 1)
	}

	a.SetParams(breakEvery, waveSize)
}

// SetParams 修改当前场景参数并记录到设置中
func (a *App) SetParams(breakEvery int, waveSize float64) {
	if breakEvery == a.breakEvery && waveSize == a.waveSize {
		return
	}
	a.breakEvery = breakEvery
	a.waveSize = waveSize
	log.Printf("[App] Params changed (breakEvery=%d, waveSize=%.1f)", breakEvery, waveSize)

	if scene, ok := a.sceneManager.GetCurrentScene().(*scenes.BlessingScene); ok {
		scene.SetParams(breakEvery, waveSize)
	}
	if a.settings != nil {
		a.settings.SetBreakEvery(breakEvery)
		a.settings.SetWaveSize(waveSize)
	}
}

// Params 返回当前参数
func (a *App) Params() (int, float64) {
	return a.breakEvery, a.waveSize
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 卸载当前场景并保存设置
// 在 RunGame 返回后调用
func (a *App) Close() error {
	a.sceneManager.Close()
	if a.settings == nil {
		return nil
	}
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("保存设置失败: %w", err)
	}
	return nil
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}
