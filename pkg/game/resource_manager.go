package game

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/gonewx/blessingwave/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DefaultFontName 内置字体的缓存名（M+ 1p，覆盖中日文字形）
const DefaultFontName = "builtin:mplus1p"

// ResourceManager is responsible for centralized management of font resources.
// It loads each font file once and caches one face per size,
// so the render loop can ask for any pixel size every frame.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal caches use standard Go maps.
// For the current single-threaded game loop, no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager()
//	if err := rm.SetFontPath("/usr/share/fonts/noto/NotoSansCJK.ttc"); err != nil {
//	    log.Printf("Failed to load font: %v", err)
//	}
//	face := rm.Face(28.6)
type ResourceManager struct {
	fontSourceCache map[string]*text.GoTextFaceSource // path -> parsed font
	fontFaceCache   map[string]*text.GoTextFace       // "path:size" -> face
	fontPath        string                            // 当前使用的字体
}

// NewResourceManager creates a ResourceManager that uses the built-in font.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		fontSourceCache: make(map[string]*text.GoTextFaceSource),
		fontFaceCache:   make(map[string]*text.GoTextFace),
		fontPath:        DefaultFontName,
	}
}

// SetFontPath 切换当前字体
//
// 路径为空时恢复内置字体；以 "data/" 开头的路径从嵌入资源读取，
// 其余路径从文件系统读取。加载失败时保留原字体并返回错误。
func (rm *ResourceManager) SetFontPath(path string) error {
	if path == "" {
		rm.fontPath = DefaultFontName
		return nil
	}
	if _, err := rm.loadSource(path); err != nil {
		return err
	}
	rm.fontPath = path
	log.Printf("[ResourceManager] 使用字体: %s", path)
	return nil
}

// FontPath 返回当前字体路径
func (rm *ResourceManager) FontPath() string {
	return rm.fontPath
}

// LoadFont loads a font face at the given size and caches it.
// Faces are cached per path and size (rounded to 0.1).
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	size = math.Round(size*10) / 10
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)

	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, err := rm.loadSource(path)
	if err != nil {
		return nil, err
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace
	return goTextFace, nil
}

// Face 返回当前字体在给定像素大小下的字形
//
// 加载失败时返回 nil，调用方跳过该条目的绘制。
func (rm *ResourceManager) Face(sizePx float64) *text.GoTextFace {
	face, err := rm.LoadFont(rm.fontPath, sizePx)
	if err != nil {
		log.Printf("[ResourceManager] 字体加载失败: %v", err)
		return nil
	}
	return face
}

// loadSource 解析字体文件，结果按路径缓存
func (rm *ResourceManager) loadSource(path string) (*text.GoTextFaceSource, error) {
	if source, ok := rm.fontSourceCache[path]; ok {
		return source, nil
	}

	fontData, err := readFontData(path)
	if err != nil {
		return nil, err
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}
	rm.fontSourceCache[path] = source
	return source, nil
}

func readFontData(path string) ([]byte, error) {
	switch {
	case path == DefaultFontName:
		return fonts.MPlus1pRegular_ttf, nil
	case strings.HasPrefix(path, "data/"):
		data, err := embedded.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded font %s: %w", path, err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		return data, nil
	}
}
