package blessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gonewx/blessingwave/pkg/embedded"
)

// DefaultEmbeddedPath 内置祝福数据路径
const DefaultEmbeddedPath = "data/blessings.json"

// embeddedPrefix 显式指定内置资源的前缀，如 "embedded:data/blessings.json"
const embeddedPrefix = "embedded:"

// ErrHTTPStatus 服务器返回非 2xx 状态码
var ErrHTTPStatus = errors.New("unexpected http status")

// Source 祝福数据来源
type Source interface {
	// Fetch 读取原始 JSON 数据
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource 通过 HTTP GET 获取数据，不使用缓存
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Fetch 实现 Source 接口
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.URL, err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", s.URL, err)
	}
	return data, nil
}

// FileSource 从本地文件读取数据
type FileSource struct {
	Path string
}

// Fetch 实现 Source 接口
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blessing file %s: %w", s.Path, err)
	}
	return data, nil
}

// EmbeddedSource 从内置资源读取数据
type EmbeddedSource struct {
	Path string
}

// Fetch 实现 Source 接口
func (s *EmbeddedSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path
	if path == "" {
		path = DefaultEmbeddedPath
	}
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded blessing data %s: %w", path, err)
	}
	return data, nil
}

// NewSource 根据位置字符串创建数据来源
//
//	""                      → 内置默认数据
//	"embedded:<path>"       → 内置资源
//	"http://..." / "https://..." → HTTP
//	其他                    → 本地文件
func NewSource(location string) Source {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return &EmbeddedSource{Path: DefaultEmbeddedPath}
	case strings.HasPrefix(location, embeddedPrefix):
		return &EmbeddedSource{Path: strings.TrimPrefix(location, embeddedPrefix)}
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return &HTTPSource{URL: location}
	default:
		return &FileSource{Path: location}
	}
}
