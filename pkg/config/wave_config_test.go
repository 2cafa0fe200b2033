package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWaveConfigIsValid(t *testing.T) {
	cfg := DefaultWaveConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 120, cfg.MaxLive)
	assert.Equal(t, 4*time.Second, cfg.WaveInterval())
	assert.Equal(t, 1400*time.Millisecond, cfg.BurstWindow())
	assert.Equal(t, 220*time.Millisecond, cfg.RemovalGrace())
}

func TestDefaultPalette(t *testing.T) {
	colors, err := DefaultWaveConfig().Colors()
	require.NoError(t, err)
	require.Len(t, colors, 3)

	assert.Equal(t, uint8(0xFF), colors[0].R)
	assert.Equal(t, uint8(0xE6), colors[0].G)
	assert.Equal(t, uint8(0x6F), colors[0].B)
}

func TestParseWaveConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseWaveConfig([]byte("maxLive: 50\nbreakEvery: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MaxLive)
	assert.Equal(t, 8, cfg.BreakEvery)
	// 未指定的字段保留默认值
	assert.Equal(t, 4000, cfg.WaveIntervalMs)
	assert.Len(t, cfg.Palette, 3)
}

func TestParseWaveConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"上限为零", "maxLive: 0"},
		{"生命周期颠倒", "minLifeMs: 9000\nmaxLifeMs: 1000"},
		{"关键帧顺序错误", "fadeInEnd: 0.9\nfadeOutStart: 0.5"},
		{"空调色板", "palette: []"},
		{"非法颜色", "palette: [\"not-a-color\"]"},
		{"未知切分方式", "segmentation: word"},
		{"换行长度为零", "breakEvery: 0"},
		{"波次大小为负", "waveSize: -1"},
		{"YAML 语法错误", "maxLive: [1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWaveConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("waveSize: 30\n"), 0o644))

	cfg, err := LoadWaveConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.WaveSize)

	_, err = LoadWaveConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStageBounds(t *testing.T) {
	t.Run("宽屏按宽度计算", func(t *testing.T) {
		r := StageBounds(1280, 720)
		assert.InDelta(t, 1049.6, r.W, 0.001)
		assert.InDelta(t, 590.4, r.H, 0.001)
		assert.InDelta(t, (1280-r.W)/2, r.X, 0.001)
		assert.InDelta(t, (720-r.H)/2, r.Y, 0.001)
	})

	t.Run("矮屏按高度收缩", func(t *testing.T) {
		r := StageBounds(2000, 500)
		assert.InDelta(t, 450, r.H, 0.001)
		assert.InDelta(t, 800, r.W, 0.001)
	})
}
