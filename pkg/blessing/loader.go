// Package blessing 负责祝福数据的加载与文本切分
//
// 加载流程：Source.Fetch → ParseMessages → 占位文本兜底。
// 加载结果不会为空：无数据时为 PlaceholderNoData，失败时为 PlaceholderLoadFailed。
package blessing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// 占位文本
const (
	PlaceholderNoData     = "(no data)"
	PlaceholderLoadFailed = "Error: failed to load blessing data"
)

// answerTextField 每条记录中的文本字段
const answerTextField = "answer_text"

// ErrMalformedJSON 数据不是合法 JSON
var ErrMalformedJSON = errors.New("malformed blessing json")

// Pool 祝福文本池，加载后不可变
type Pool []string

// InitialPool 数据到达前使用的池
func InitialPool() Pool {
	return Pool{""}
}

// LoadStatus 加载结果分类
type LoadStatus int

const (
	// StatusOK 至少得到一条有效文本
	StatusOK LoadStatus = iota
	// StatusEmpty 请求成功但没有有效文本
	StatusEmpty
	// StatusFailed 网络、状态码或解析失败
	StatusFailed
)

// String 返回状态名称
func (s LoadStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// LoadResult 一次加载的结果
type LoadResult struct {
	Pool   Pool
	Status LoadStatus
	Err    error
}

// ParseMessages 从 JSON 数组中提取 answer_text 文本
//
// 字段可以是任意 JSON 类型，统一转为字符串后去除首尾空白，空串丢弃。
// 字段重复时取最后一个。顶层不是数组时返回空列表。
func ParseMessages(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedJSON
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return []string{}, nil
	}

	messages := make([]string, 0, len(root.Array()))
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		text := strings.TrimSpace(lastField(item, answerTextField).String())
		if text != "" {
			messages = append(messages, text)
		}
		return true
	})
	return messages, nil
}

// lastField 返回对象中最后一个同名字段，不存在时为零值
func lastField(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
		}
		return true
	})
	return found
}

// Load 读取并解析祝福数据，结果池永远非空
func Load(ctx context.Context, src Source) LoadResult {
	data, err := src.Fetch(ctx)
	if err != nil {
		return failed(fmt.Errorf("fetch blessing data: %w", err))
	}

	messages, err := ParseMessages(data)
	if err != nil {
		return failed(fmt.Errorf("parse blessing data: %w", err))
	}

	if len(messages) == 0 {
		log.Printf("[BlessingLoader] 数据为空，使用占位文本")
		return LoadResult{Pool: Pool{PlaceholderNoData}, Status: StatusEmpty}
	}

	log.Printf("[BlessingLoader] 加载 %d 条祝福", len(messages))
	return LoadResult{Pool: Pool(messages), Status: StatusOK}
}

func failed(err error) LoadResult {
	log.Printf("[BlessingLoader] 错误: %v", err)
	return LoadResult{Pool: Pool{PlaceholderLoadFailed}, Status: StatusFailed, Err: err}
}

// LoadAsync 在后台 goroutine 中加载，结果通过缓冲通道投递一次
//
// timeout > 0 时限制整个加载过程的时长。
// 调用方在主循环中轮询通道，避免在加载 goroutine 中修改共享状态。
func LoadAsync(ctx context.Context, src Source, timeout time.Duration) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ch <- Load(ctx, src)
	}()
	return ch
}
