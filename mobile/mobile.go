//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前需要把根目录的 data/
// 复制到本目录：
//
//	cp -r ../data ./data
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.blessingwave -o build/android/blessingwave.aar -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/blessingwave/pkg/app"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/embedded"
)

func init() {
	// 初始化嵌入资源
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	waveCfg := config.DefaultWaveConfig()
	if data, err := embedded.ReadFile(config.DefaultWaveConfigPath); err == nil {
		if parsed, err := config.ParseWaveConfig(data); err == nil {
			waveCfg = parsed
		} else {
			log.Printf("[Mobile] Warning: %v (using defaults)", err)
		}
	}

	// 移动端不持久化设置，使用内置数据与字体
	gameApp, err := app.NewApp(app.Config{
		Verbose: true,
		Wave:    waveCfg,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
