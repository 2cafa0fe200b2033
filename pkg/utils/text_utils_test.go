package utils

import (
	"testing"

	"github.com/rivo/uniseg"
)

// fixedWidth 每个字素簇宽 10 像素
func fixedWidth(s string) float64 {
	return float64(uniseg.GraphemeClusterCount(s)) * 10
}

// TestWrapText 测试文本换行功能
func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth float64
		expected []string
	}{
		{"短文本不换行", "短文本", 100, []string{"短文本"}},
		{"长文本自动换行", "一二三四五六七", 30, []string{"一二三", "四五六", "七"}},
		{"空文本", "", 100, []string{""}},
		{"单字超宽强制占一行", "大字", 5, []string{"大", "字"}},
		{"断行处去除空白", "ab cd", 30, []string{"ab", "cd"}},
		{"组合字符不拆开", "e\u0301e\u0301e\u0301", 20, []string{"e\u0301e\u0301", "e\u0301"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := WrapText(tt.input, tt.maxWidth, fixedWidth)
			if len(lines) != len(tt.expected) {
				t.Fatalf("WrapText(%q) = %q, 期望 %q", tt.input, lines, tt.expected)
			}
			for i := range lines {
				if lines[i] != tt.expected[i] {
					t.Errorf("第 %d 行 = %q, 期望 %q", i, lines[i], tt.expected[i])
				}
			}
		})
	}
}

// TestWrapTextWithoutMeasure 没有测量函数时原样返回
func TestWrapTextWithoutMeasure(t *testing.T) {
	lines := WrapText("任意文本", 10, nil)
	if len(lines) != 1 || lines[0] != "任意文本" {
		t.Errorf("期望原样返回，得到 %q", lines)
	}
}

// TestWrapLines 测试多行换行
func TestWrapLines(t *testing.T) {
	lines := WrapLines([]string{"一二三四", "五"}, 20, fixedWidth)
	expected := []string{"一二", "三四", "五"}
	if len(lines) != len(expected) {
		t.Fatalf("WrapLines = %q, 期望 %q", lines, expected)
	}
	for i := range lines {
		if lines[i] != expected[i] {
			t.Errorf("第 %d 行 = %q, 期望 %q", i, lines[i], expected[i])
		}
	}
}
