package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/gonewx/blessingwave/pkg/app"
	"github.com/gonewx/blessingwave/pkg/blessing"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/embedded"
	"github.com/gonewx/blessingwave/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/quasilyte/gdata/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	source     = flag.String("source", "", "祝福数据来源（URL、文件路径或 embedded:<path>），默认使用内置数据")
	configPath = flag.String("config", "", "波次配置 YAML 文件，默认使用内置配置")
	fontPath   = flag.String("font", "", "字体文件（TTF/OTF），默认使用内置字体")
	breakEvery = flag.Int("break-every", 0, "每行字素数，0 表示使用配置或已保存的值")
	waveSize   = flag.Float64("wave-size", 0, "每波条目数，0 表示使用配置或已保存的值")
	fullscreen = flag.Bool("fullscreen", false, "全屏启动")
	width      = flag.Int("width", config.GameWindowWidth, "窗口宽度")
	height     = flag.Int("height", config.GameWindowHeight, "窗口高度")
)

func main() {
	flag.Parse()

	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Main] Warning: failed to load .env: %v", err)
	}

	// 初始化嵌入资源
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	waveCfg, err := loadWaveConfig(*configPath)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 设置持久化失败时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{AppName: "blessingwave"})
	if err != nil {
		log.Printf("[Main] Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}
	settingsManager, _ := game.NewSettingsManager(gdataManager)
	saved := settingsManager.GetSettings()

	// 优先级：命令行 > 环境变量 > 已保存设置 > 配置文件
	src := firstNonEmpty(*source, os.Getenv("BLESSING_SOURCE"))
	font := firstNonEmpty(*fontPath, os.Getenv("BLESSING_FONT"), saved.FontPath)

	be := *breakEvery
	if be <= 0 {
		be = saved.BreakEvery
	}
	ws := *waveSize
	if ws <= 0 {
		ws = saved.WaveSize
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Wave:       waveCfg,
		Source:     blessing.NewSource(src),
		FontPath:   font,
		Settings:   settingsManager,
		BreakEvery: be,
		WaveSize:   ws,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	if *fontPath != "" {
		settingsManager.SetFontPath(*fontPath)
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Blessing Wave")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(*fullscreen || saved.Fullscreen)

	runErr := ebiten.RunGame(gameApp)

	if err := gameApp.Close(); err != nil {
		log.Printf("[Main] Warning: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// loadWaveConfig 读取配置文件；路径为空时使用内置配置
func loadWaveConfig(path string) (*config.WaveConfig, error) {
	if path != "" {
		return config.LoadWaveConfig(path)
	}
	data, err := embedded.ReadFile(config.DefaultWaveConfigPath)
	if err != nil {
		log.Printf("[Main] Warning: built-in wave config missing (%v), using defaults", err)
		return config.DefaultWaveConfig(), nil
	}
	return config.ParseWaveConfig(data)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
