package config

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// DefaultWaveConfigPath 内置波次配置路径
const DefaultWaveConfigPath = "data/wave_config.yaml"

// WaveConfig 祝福波次的时间、布局与配色参数
// 启动时构造一次，之后只读，按指针传给各系统
type WaveConfig struct {
	// 节奏
	WaveIntervalMs int     `yaml:"waveIntervalMs"` // 两次爆发之间的间隔
	BurstWindowMs  int     `yaml:"burstWindowMs"`  // 单次爆发的持续时间
	BurstExponent  float64 `yaml:"burstExponent"`  // 爆发缓动指数
	InitialSpawn   int     `yaml:"initialSpawn"`   // 挂载时立即生成的数量
	MaxLive        int     `yaml:"maxLive"`        // 同屏条目上限

	// 生命周期
	MinLifeMs      int `yaml:"minLifeMs"`
	MaxLifeMs      int `yaml:"maxLifeMs"`
	RemovalGraceMs int `yaml:"removalGraceMs"` // 动画结束后延迟移除的时间
	MaxDelayMs     int `yaml:"maxDelayMs"`     // 随机起始延迟上限

	// 出生点边距（像素）
	MarginLeft   float64 `yaml:"marginLeft"`
	MarginRight  float64 `yaml:"marginRight"`
	MarginTop    float64 `yaml:"marginTop"`
	MarginBottom float64 `yaml:"marginBottom"`

	// 漂移（相对舞台尺寸的比例）
	DriftXFraction    float64 `yaml:"driftXFraction"`
	DriftYMinFraction float64 `yaml:"driftYMinFraction"`
	DriftYMaxFraction float64 `yaml:"driftYMaxFraction"`

	// 变换
	ScaleMin       float64 `yaml:"scaleMin"`
	ScaleMax       float64 `yaml:"scaleMax"`
	RotationMaxDeg float64 `yaml:"rotationMaxDeg"`

	// 透明度关键帧（占生命周期的比例）
	FadeInEnd    float64 `yaml:"fadeInEnd"`
	FadeOutStart float64 `yaml:"fadeOutStart"`

	Palette      []string `yaml:"palette"`      // 文字颜色，十六进制
	Segmentation string   `yaml:"segmentation"` // grapheme | codepoint

	// 调用方参数的默认值
	BreakEvery int     `yaml:"breakEvery"`
	WaveSize   float64 `yaml:"waveSize"`

	FetchTimeoutMs int     `yaml:"fetchTimeoutMs"`
	BaseFontPx     float64 `yaml:"baseFontPx"` // 1em 对应的像素
}

// DefaultWaveConfig 返回默认配置
func DefaultWaveConfig() *WaveConfig {
	return &WaveConfig{
		WaveIntervalMs: 4000,
		BurstWindowMs:  1400,
		BurstExponent:  1.7,
		InitialSpawn:   10,
		MaxLive:        120,

		MinLifeMs:      6000,
		MaxLifeMs:      10000,
		RemovalGraceMs: 220,
		MaxDelayMs:     250,

		MarginLeft:   50,
		MarginRight:  100,
		MarginTop:    50,
		MarginBottom: 50,

		DriftXFraction:    0.05,
		DriftYMinFraction: 0.12,
		DriftYMaxFraction: 0.25,

		ScaleMin:       0.95,
		ScaleMax:       1.08,
		RotationMaxDeg: 6,

		FadeInEnd:    0.12,
		FadeOutStart: 0.85,

		Palette:      []string{"#FFE66F", "#FFF0AC", "#FFDCB9"},
		Segmentation: "grapheme",

		BreakEvery: 14,
		WaveSize:   18,

		FetchTimeoutMs: 10000,
		BaseFontPx:     22,
	}
}

// LoadWaveConfig 从 YAML 文件加载配置
// 文件中未出现的字段保留默认值
func LoadWaveConfig(filePath string) (*WaveConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wave config file: %w", err)
	}
	return ParseWaveConfig(data)
}

// ParseWaveConfig 解析 YAML 数据并校验
func ParseWaveConfig(data []byte) (*WaveConfig, error) {
	cfg := DefaultWaveConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wave config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wave config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置的有效性
func (c *WaveConfig) Validate() error {
	if c.WaveIntervalMs <= 0 {
		return fmt.Errorf("waveIntervalMs must be > 0, got %d", c.WaveIntervalMs)
	}
	if c.BurstWindowMs <= 0 {
		return fmt.Errorf("burstWindowMs must be > 0, got %d", c.BurstWindowMs)
	}
	if c.BurstExponent <= 0 {
		return fmt.Errorf("burstExponent must be > 0, got %f", c.BurstExponent)
	}
	if c.InitialSpawn < 0 {
		return fmt.Errorf("initialSpawn must be >= 0, got %d", c.InitialSpawn)
	}
	if c.MaxLive < 1 {
		return fmt.Errorf("maxLive must be >= 1, got %d", c.MaxLive)
	}
	if c.MinLifeMs <= 0 || c.MaxLifeMs < c.MinLifeMs {
		return fmt.Errorf("life range invalid: min=%d max=%d", c.MinLifeMs, c.MaxLifeMs)
	}
	if c.RemovalGraceMs < 0 || c.MaxDelayMs < 0 {
		return fmt.Errorf("removalGraceMs and maxDelayMs must be >= 0")
	}
	if c.DriftYMaxFraction < c.DriftYMinFraction {
		return fmt.Errorf("driftYMaxFraction must be >= driftYMinFraction")
	}
	if c.ScaleMin <= 0 || c.ScaleMax < c.ScaleMin {
		return fmt.Errorf("scale range invalid: min=%f max=%f", c.ScaleMin, c.ScaleMax)
	}
	if c.FadeInEnd <= 0 || c.FadeOutStart <= c.FadeInEnd || c.FadeOutStart >= 1 {
		return fmt.Errorf("keyframes must satisfy 0 < fadeInEnd < fadeOutStart < 1, got %f, %f", c.FadeInEnd, c.FadeOutStart)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette cannot be empty")
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if c.Segmentation != "grapheme" && c.Segmentation != "codepoint" {
		return fmt.Errorf("segmentation must be grapheme or codepoint, got %q", c.Segmentation)
	}
	if c.BreakEvery < 1 {
		return fmt.Errorf("breakEvery must be >= 1, got %d", c.BreakEvery)
	}
	if c.WaveSize <= 0 {
		return fmt.Errorf("waveSize must be > 0, got %f", c.WaveSize)
	}
	if c.FetchTimeoutMs <= 0 {
		return fmt.Errorf("fetchTimeoutMs must be > 0, got %d", c.FetchTimeoutMs)
	}
	if c.BaseFontPx <= 0 {
		return fmt.Errorf("baseFontPx must be > 0, got %f", c.BaseFontPx)
	}
	return nil
}

// Colors 解析调色板
func (c *WaveConfig) Colors() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(c.Palette))
	for _, hex := range c.Palette {
		col, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid palette color %q: %w", hex, err)
		}
		r, g, b := col.RGB255()
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return out, nil
}

// WaveInterval 爆发间隔
func (c *WaveConfig) WaveInterval() time.Duration { return ms(c.WaveIntervalMs) }

// BurstWindow 单次爆发窗口
func (c *WaveConfig) BurstWindow() time.Duration { return ms(c.BurstWindowMs) }

// RemovalGrace 移除宽限时间
func (c *WaveConfig) RemovalGrace() time.Duration { return ms(c.RemovalGraceMs) }

// FetchTimeout 数据加载超时
func (c *WaveConfig) FetchTimeout() time.Duration { return ms(c.FetchTimeoutMs) }

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
