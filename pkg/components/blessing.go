package components

import (
	"image/color"

	"github.com/gonewx/blessingwave/pkg/blessing"
)

// BlessingComponent 祝福条目的显示内容
type BlessingComponent struct {
	Text          string          // 原始文本
	Nodes         []blessing.Node // 按 breakEvery 预先换行后的节点
	GraphemeCount int             // 字符数量，决定字号档位

	// WrappedLines 渲染时按宽度二次换行后的缓存，由渲染系统填充
	WrappedLines []string
	WrappedForPx float64 // 缓存对应的字号，字号变化时失效
}

// BlessingStyleComponent 祝福条目的样式
type BlessingStyleComponent struct {
	Color    color.RGBA
	ColorHex string
	FontEm   float64 // 字号档位（em）
}
