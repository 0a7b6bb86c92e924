package factory

import (
	"fmt"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/config"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/newsapi"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/search"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/searxng"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例。密钥缺失不报错，由调用方记录告警，请求时才会失败
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	switch cfg.Search.Provider {
	case "", config.ProviderNewsAPI:
		n := cfg.Search.NewsAPI
		return newsapi.NewClient(n.APIKey, n.BaseURL, n.Timeout), nil

	case config.ProviderTavily:
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case config.ProviderSearXNG:
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}
