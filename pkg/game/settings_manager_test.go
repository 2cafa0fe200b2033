package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_blessingwave_settings",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回零值（表示未设置）
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.BreakEvery != 0 || settings.WaveSize != 0 {
		t.Errorf("expected unset counts, got %+v", settings)
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	sm.SetBreakEvery(20)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should not fail: %v", err)
	}
	if sm.GetSettings().BreakEvery != 20 {
		t.Errorf("BreakEvery: got %d, want 20", sm.GetSettings().BreakEvery)
	}
}

// TestSettingsSaveAndLoad 测试保存后由新实例读回
func TestSettingsSaveAndLoad(t *testing.T) {
	gdataManager := openTestGdata(t)

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	sm.SetBreakEvery(9)
	sm.SetWaveSize(30)
	sm.SetFullscreen(true)
	sm.SetFontPath("/tmp/font.ttf")
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	got := sm2.GetSettings()
	if got.BreakEvery != 9 {
		t.Errorf("BreakEvery: got %d, want 9", got.BreakEvery)
	}
	if got.WaveSize != 30 {
		t.Errorf("WaveSize: got %v, want 30", got.WaveSize)
	}
	if !got.Fullscreen {
		t.Error("Fullscreen: got false, want true")
	}
	if got.FontPath != "/tmp/font.ttf" {
		t.Errorf("FontPath: got %q", got.FontPath)
	}
}

// TestSettingsCorruptedData 测试损坏的数据回退到默认值
func TestSettingsCorruptedData(t *testing.T) {
	gdataManager := openTestGdata(t)

	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("breakEvery: [oops")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	if sm.GetSettings().BreakEvery != 0 {
		t.Errorf("expected defaults after corrupted data, got %+v", sm.GetSettings())
	}
	if err := sm.Load(); err == nil {
		t.Error("Load() should report the unmarshal error")
	}
}

// TestSettingsClamp 测试取值范围限制
func TestSettingsClamp(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	sm.SetBreakEvery(0)
	if sm.GetSettings().BreakEvery != 1 {
		t.Errorf("BreakEvery: got %d, want 1", sm.GetSettings().BreakEvery)
	}
	sm.SetWaveSize(-3)
	if sm.GetSettings().WaveSize != 0 {
		t.Errorf("WaveSize: got %v, want 0", sm.GetSettings().WaveSize)
	}
}
