// Package newsapi 是 newsapi.org /v2/everything 的客户端
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/search"
)

// DefaultBaseURL newsapi.org 默认地址
const DefaultBaseURL = "https://newsapi.org"

// MaxPageSize 单次请求返回文章数上限
const MaxPageSize = 20

// FromLayout from 参数的时间格式 (ISO-8601 UTC)
const FromLayout = "2006-01-02T15:04:05Z"

// StatusError 非 200 响应
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("newsapi error (status %d): %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("newsapi error (status %d)", e.StatusCode)
}

// Client newsapi.org 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 newsapi 客户端，baseURL 为空时使用默认地址
func NewClient(apiKey, baseURL string, timeout int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: t},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// EverythingResponse /v2/everything 响应
type EverythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

// Article 单篇文章，缺失字段解码为空字符串
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Source 文章来源
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := c.everythingURL(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	var everything EverythingResponse
	decodeErr := json.Unmarshal(body, &everything)

	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: res.StatusCode,
			Code:       everything.Code,
			Message:    everything.Message,
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", decodeErr)
	}
	if everything.Status == "error" {
		return nil, &StatusError{
			StatusCode: res.StatusCode,
			Code:       everything.Code,
			Message:    everything.Message,
		}
	}

	results := make([]search.Result, 0, len(everything.Articles))
	for _, a := range everything.Articles {
		results = append(results, search.Result{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
		})
	}
	if len(results) > clampPageSize(req.PageSize) {
		results = results[:clampPageSize(req.PageSize)]
	}

	return &search.Response{Results: results}, nil
}

func (c *Client) everythingURL(req *search.Request) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/v2/everything"

	q := u.Query()
	q.Set("q", req.Query)
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	if req.SortBy != "" {
		q.Set("sortBy", req.SortBy)
	}
	if len(req.Sources) > 0 {
		q.Set("sources", strings.Join(req.Sources, ","))
	}
	if !req.From.IsZero() {
		q.Set("from", req.From.UTC().Format(FromLayout))
	}
	q.Set("pageSize", strconv.Itoa(clampPageSize(req.PageSize)))
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func clampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
