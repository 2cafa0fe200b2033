package utils

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MeasureFunc 返回文本渲染后的宽度（像素）
type MeasureFunc func(s string) float64

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - maxWidth: 最大宽度（像素）
//   - measure: 宽度测量函数
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
//
// 换行规则:
//   - 按字素簇遍历，组合字符和 emoji 序列不会被拆开
//   - 单个字符就超宽时强制占一行
//   - 支持中文和英文混合文本
func WrapText(textStr string, maxWidth float64, measure MeasureFunc) []string {
	if textStr == "" || measure == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	// 如果文本宽度小于最大宽度，直接返回
	if measure(textStr) <= maxWidth {
		return []string{textStr}
	}

	var lines []string
	currentLine := ""

	g := uniseg.NewGraphemes(textStr)
	for g.Next() {
		char := g.Str()

		testLine := currentLine + char
		if measure(testLine) <= maxWidth {
			currentLine = testLine
			continue
		}

		// 当前行为空（说明单个字符就超宽），强制添加
		if currentLine == "" {
			lines = append(lines, char)
			continue
		}

		// 当前行结束，开始新行
		lines = append(lines, strings.TrimSpace(currentLine))
		currentLine = char
	}

	// 添加最后一行
	if currentLine != "" {
		lines = append(lines, strings.TrimSpace(currentLine))
	}

	if len(lines) == 0 {
		lines = []string{textStr}
	}

	return lines
}

// WrapLines 对多行文本逐行调用 WrapText
func WrapLines(lines []string, maxWidth float64, measure MeasureFunc) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, WrapText(line, maxWidth, measure)...)
	}
	return out
}
