package blessing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gonewx/blessingwave/pkg/embedded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	data []byte
	err  error
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.data, s.err
}

func TestParseMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"普通记录", `[{"answer_text":"平安喜乐"},{"answer_text":"万事如意"}]`, []string{"平安喜乐", "万事如意"}},
		{"去除首尾空白", `[{"answer_text":"  新年快乐\n"}]`, []string{"新年快乐"}},
		{"丢弃空文本", `[{"answer_text":"   "},{"answer_text":""},{"answer_text":"好"}]`, []string{"好"}},
		{"缺少字段", `[{"other":"x"},{"answer_text":"有"}]`, []string{"有"}},
		{"null 字段", `[{"answer_text":null}]`, []string{}},
		{"数字转为字符串", `[{"answer_text":42}]`, []string{"42"}},
		{"布尔转为字符串", `[{"answer_text":true}]`, []string{"true"}},
		{"非对象元素", `["plain", 3, {"answer_text":"ok"}]`, []string{"ok"}},
		{"顶层不是数组", `{"answer_text":"x"}`, []string{}},
		{"空数组", `[]`, []string{}},
		{"重复字段取最后一个", `[{"answer_text":"first","answer_text":"last"}]`, []string{"last"}},
		{"重复字段最后为 null", `[{"answer_text":"first","answer_text":null}]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMessages([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseMessagesMalformed(t *testing.T) {
	_, err := ParseMessages([]byte(`[{"answer_text": "x"`))
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestLoadStatuses(t *testing.T) {
	t.Run("有效数据", func(t *testing.T) {
		res := Load(context.Background(), &stubSource{data: []byte(`[{"answer_text":"福"}]`)})
		assert.Equal(t, StatusOK, res.Status)
		assert.Equal(t, Pool{"福"}, res.Pool)
		assert.NoError(t, res.Err)
	})

	t.Run("空数组使用占位文本", func(t *testing.T) {
		res := Load(context.Background(), &stubSource{data: []byte(`[]`)})
		assert.Equal(t, StatusEmpty, res.Status)
		assert.Equal(t, Pool{PlaceholderNoData}, res.Pool)
	})

	t.Run("读取失败使用错误占位", func(t *testing.T) {
		res := Load(context.Background(), &stubSource{err: errors.New("boom")})
		assert.Equal(t, StatusFailed, res.Status)
		assert.Equal(t, Pool{PlaceholderLoadFailed}, res.Pool)
		assert.Error(t, res.Err)
	})

	t.Run("解析失败使用错误占位", func(t *testing.T) {
		res := Load(context.Background(), &stubSource{data: []byte(`not json`)})
		assert.Equal(t, StatusFailed, res.Status)
		assert.Equal(t, Pool{PlaceholderLoadFailed}, res.Pool)
		assert.ErrorIs(t, res.Err, ErrMalformedJSON)
	})
}

func TestLoadAsyncDeliversOnce(t *testing.T) {
	ch := LoadAsync(context.Background(), &stubSource{data: []byte(`[{"answer_text":"一"}]`)}, time.Second)
	res := <-ch
	assert.Equal(t, Pool{"一"}, res.Pool)
}

func TestHTTPSource(t *testing.T) {
	var gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		switch r.URL.Path {
		case "/input.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"answer_text":"远方的朋友"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("成功", func(t *testing.T) {
		res := Load(context.Background(), &HTTPSource{URL: srv.URL + "/input.json", Client: srv.Client()})
		assert.Equal(t, StatusOK, res.Status)
		assert.Equal(t, Pool{"远方的朋友"}, res.Pool)
		assert.Contains(t, gotCacheControl, "no-cache")
	})

	t.Run("非 2xx 状态", func(t *testing.T) {
		res := Load(context.Background(), &HTTPSource{URL: srv.URL + "/missing.json", Client: srv.Client()})
		assert.Equal(t, StatusFailed, res.Status)
		assert.ErrorIs(t, res.Err, ErrHTTPStatus)
	})
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"answer_text":"文件"}]`), 0o644))

	res := Load(context.Background(), &FileSource{Path: path})
	assert.Equal(t, Pool{"文件"}, res.Pool)

	res = Load(context.Background(), &FileSource{Path: filepath.Join(t.TempDir(), "nope.json")})
	assert.Equal(t, StatusFailed, res.Status)
}

func TestEmbeddedSource(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/blessings.json": &fstest.MapFile{Data: []byte(`[{"answer_text":"内置"}]`)},
	})
	t.Cleanup(embedded.Reset)

	res := Load(context.Background(), NewSource(""))
	assert.Equal(t, Pool{"内置"}, res.Pool)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, &EmbeddedSource{}, NewSource(""))
	assert.IsType(t, &EmbeddedSource{}, NewSource("embedded:data/other.json"))
	assert.IsType(t, &HTTPSource{}, NewSource("https://example.com/input.json"))
	assert.IsType(t, &FileSource{}, NewSource("./input.json"))

	src := NewSource("embedded:data/other.json").(*EmbeddedSource)
	assert.Equal(t, "data/other.json", src.Path)
}
