package blessing

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Segmenter 将文本切分为用户可感知的字符序列
type Segmenter func(text string) []string

// GraphemeSegmenter 按 Unicode 字素簇切分（默认）
// 组合字符、emoji 序列等多码点字符会作为一个整体保留
func GraphemeSegmenter(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// CodePointSegmenter 按码点切分
// 降级方案：多码点字素簇可能被拆开
func CodePointSegmenter(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, len(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}

// SegmenterByName 根据配置名称返回切分器
// 支持 "grapheme"（默认）和 "codepoint"
func SegmenterByName(name string) (Segmenter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "grapheme":
		return GraphemeSegmenter, nil
	case "codepoint":
		return CodePointSegmenter, nil
	default:
		return nil, fmt.Errorf("unknown segmentation mode %q", name)
	}
}

// NodeKind 显示节点类型
type NodeKind int

const (
	// NodeText 文本片段
	NodeText NodeKind = iota
	// NodeBreak 强制换行
	NodeBreak
)

// Node 是换行后的一个显示节点
// Key 仅用于渲染列表记账，不参与内容比较
type Node struct {
	Kind NodeKind
	Text string
	Key  string
}

// WrapIntoNodes 每 limit 个字符切一段，段与段之间插入强制换行
//
// 最后一段之后不插入换行。limit < 1 按 1 处理。
// 同样的输入总是得到等价的节点序列。
func WrapIntoNodes(text string, limit int, seg Segmenter) []Node {
	if seg == nil {
		seg = GraphemeSegmenter
	}
	if limit < 1 {
		limit = 1
	}

	g := seg(text)
	nodes := make([]Node, 0, (len(g)/limit+1)*2)
	for i := 0; i < len(g); i += limit {
		end := i + limit
		if end > len(g) {
			end = len(g)
		}
		nodes = append(nodes, Node{
			Kind: NodeText,
			Text: strings.Join(g[i:end], ""),
			Key:  fmt.Sprintf("seg-%d", i),
		})
		if end < len(g) {
			nodes = append(nodes, Node{Kind: NodeBreak, Key: fmt.Sprintf("br-%d", i)})
		}
	}
	return nodes
}

// JoinNodes 去掉换行节点并拼接文本，还原原始字符串
func JoinNodes(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Kind == NodeText {
			b.WriteString(n.Text)
		}
	}
	return b.String()
}

// Lines 按顺序返回每一行的文本
func Lines(nodes []Node) []string {
	lines := make([]string, 0, len(nodes)/2+1)
	for _, n := range nodes {
		if n.Kind == NodeText {
			lines = append(lines, n.Text)
		}
	}
	return lines
}

// 字号档位（em）
const (
	FontEmSmall       = 0.9
	FontEmMediumSmall = 1.1
	FontEmMedium      = 1.3
	FontEmLarge       = 1.6
)

// FontEmForLength 根据字素数量选择字号档位
//
//	> 100 → 0.9em
//	> 60  → 1.1em
//	> 30  → 1.3em
//	其他  → 1.6em
func FontEmForLength(n int) float64 {
	switch {
	case n > 100:
		return FontEmSmall
	case n > 60:
		return FontEmMediumSmall
	case n > 30:
		return FontEmMedium
	default:
		return FontEmLarge
	}
}
