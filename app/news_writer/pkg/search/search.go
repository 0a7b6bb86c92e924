package search

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Searcher 定义通用的新闻搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query    string
	Language string
	SortBy   string    // publishedAt, relevancy, popularity
	Sources  []string  // 可选的来源白名单
	From     time.Time // 零值表示不限制发布时间
	PageSize int
}

// Response 通用搜索响应，Results 保持 provider 返回的顺序
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title       string
	Description string
	URL         string
	PublishedAt string
	SourceName  string
}

// HostName 返回 URL 的主机名（去掉 www. 前缀），用作没有来源字段的 provider 的来源名
func HostName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
