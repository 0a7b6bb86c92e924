package config

import (
	"fmt"
	"time"
)

// 内置 profile
const (
	ProfileStock   = "stock"
	ProfileFinance = "finance"
)

// 搜索 provider
const (
	ProviderNewsAPI = "newsapi"
	ProviderTavily  = "tavily"
	ProviderSearXNG = "searxng"
)

// Profile 返回指定 profile 的默认配置，空名称等同于 stock
func Profile(name string) (*Config, error) {
	cfg := base()
	switch name {
	case "", ProfileStock:
		cfg.Profile = ProfileStock
		cfg.Query = QueryConfig{
			Keywords: "stock market OR stocks OR finance",
			Language: "en",
			SortBy:   "publishedAt",
			PageSize: MaxPageSize,
		}
		cfg.Prompt = PromptConfig{
			Preamble: "Write a concise, engaging stock news article based on the following information:",
			Suffix:   "Keep it professional, clear, and under 150 words.",
		}
		cfg.LLM.Temperature = 0.7
		cfg.Output = OutputConfig{
			ArticlesFile:  "data/stock_news.csv",
			GeneratedFile: "data/generated_stock_news.csv",
		}
	case ProfileFinance:
		cfg.Profile = ProfileFinance
		cfg.Query = QueryConfig{
			Keywords: `finance OR economy OR "interest rates" OR earnings`,
			Language: "en",
			SortBy:   "relevancy",
			Sources: []string{
				"bloomberg",
				"reuters",
				"the-wall-street-journal",
				"financial-post",
				"fortune",
				"business-insider",
			},
			Recency:    24 * time.Hour,
			PageSize:   MaxPageSize,
			IncludeURL: true,
		}
		cfg.Prompt = PromptConfig{
			Preamble: "Rewrite the following financial news item as a short, original article for retail investors:",
			Suffix:   "Use a neutral tone, explain any jargon, and stay under 200 words.",
		}
		cfg.LLM.Temperature = 0.5
		cfg.Output = OutputConfig{
			ArticlesFile:  "data/finance_news.csv",
			GeneratedFile: "data/generated_finance_news.csv",
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return cfg, nil
}

func base() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:   "gpt-3.5-turbo",
			Timeout: 60,
		},
		Search: SearchConfig{
			Provider: ProviderNewsAPI,
			NewsAPI: NewsAPIConfig{
				BaseURL: "https://newsapi.org",
				Timeout: 30,
			},
			SearXNG: SearXNGConfig{Timeout: 30},
		},
		Log:         LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{Workers: 1},
		DB:          DBConfig{Port: 5432},
	}
}
