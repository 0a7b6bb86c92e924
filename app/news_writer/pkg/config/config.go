// Package config 加载 YAML 配置、内置 profile 与环境变量中的密钥
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvNewsAPIKey = "NEWS_API_KEY"
	EnvOpenAIKey  = "OPENAI_API_KEY"
	EnvTavilyKey  = "TAVILY_API_KEY"
)

// MaxPageSize 新闻搜索单次返回的上限
const MaxPageSize = 20

// 配置校验错误
var (
	ErrUnknownProfile     = errors.New("unknown profile")
	ErrMissingKeywords    = errors.New("query.keywords is required")
	ErrInvalidPageSize    = errors.New("query.page_size must be between 0 and 20")
	ErrInvalidRecency     = errors.New("query.recency must be non-negative")
	ErrMissingModel       = errors.New("llm.model is required")
	ErrInvalidTemperature = errors.New("llm.temperature must be between 0 and 2")
	ErrMissingPreamble    = errors.New("prompt.preamble is required")
	ErrUnknownProvider    = errors.New("search.provider must be one of: newsapi, tavily, searxng")
	ErrMissingOutputPath  = errors.New("output.articles_file and output.generated_file are required")
	ErrInvalidConcurrency = errors.New("concurrency values must be non-negative")
	ErrMissingSearXNGBase = errors.New("search.searxng.base_url is required for searxng provider")
)

// Config 项目配置结构体
type Config struct {
	Profile     string            `yaml:"profile"`
	Query       QueryConfig       `yaml:"query"`
	Prompt      PromptConfig      `yaml:"prompt"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Output      OutputConfig      `yaml:"output"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// QueryConfig 新闻搜索参数
type QueryConfig struct {
	Keywords   string        `yaml:"keywords"`
	Language   string        `yaml:"language"`
	SortBy     string        `yaml:"sort_by"` // publishedAt, relevancy, popularity
	Sources    []string      `yaml:"sources"`
	Recency    time.Duration `yaml:"recency"` // 0 表示不限制发布时间
	PageSize   int           `yaml:"page_size"`
	IncludeURL bool          `yaml:"include_url"` // text_for_ai 是否附带原文链接
}

// PromptConfig prompt 模板
type PromptConfig struct {
	Preamble string `yaml:"preamble"`
	Suffix   string `yaml:"suffix"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Timeout     int     `yaml:"timeout"` // 秒
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	NewsAPI  NewsAPIConfig `yaml:"newsapi"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// NewsAPIConfig newsapi.org 配置
type NewsAPIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// OutputConfig 输出文件
type OutputConfig struct {
	ArticlesFile  string `yaml:"articles_file"`
	GeneratedFile string `yaml:"generated_file"`
	CleanedFile   string `yaml:"cleaned_file"` // 可选
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 生成阶段的并发与限流，全部为 0 时串行且不限流
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空时不归档
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig 从指定路径加载配置。
// profile 非空时覆盖文件中的 profile 字段；文件中显式给出的字段覆盖 profile 默认值。
// path 为空时只使用 profile 默认值。
func LoadConfig(path string, profile string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		data = b
	}

	name := profile
	if name == "" {
		var head struct {
			Profile string `yaml:"profile"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		name = head.Profile
	}

	cfg, err := Profile(name)
	if err != nil {
		return nil, err
	}

	// 在 profile 默认值之上解码，未出现的字段保持默认
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.Profile = name
	if cfg.Profile == "" {
		cfg.Profile = ProfileStock
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv 用环境变量中的密钥覆盖配置
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvNewsAPIKey); v != "" {
		c.Search.NewsAPI.APIKey = v
	}
	if v := getenv(EnvOpenAIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := getenv(EnvTavilyKey); v != "" {
		c.Search.Tavily.APIKey = v
	}
}

// MissingSecrets 返回当前配置下缺失的密钥对应的环境变量名
func (c *Config) MissingSecrets() []string {
	var missing []string
	switch c.Search.Provider {
	case ProviderNewsAPI:
		if c.Search.NewsAPI.APIKey == "" {
			missing = append(missing, EnvNewsAPIKey)
		}
	case ProviderTavily:
		if c.Search.Tavily.APIKey == "" {
			missing = append(missing, EnvTavilyKey)
		}
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, EnvOpenAIKey)
	}
	return missing
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Query.Keywords == "" {
		return ErrMissingKeywords
	}
	if c.Query.PageSize < 0 || c.Query.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.Query.PageSize)
	}
	if c.Query.Recency < 0 {
		return ErrInvalidRecency
	}
	if c.LLM.Model == "" {
		return ErrMissingModel
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return ErrInvalidTemperature
	}
	if c.Prompt.Preamble == "" {
		return ErrMissingPreamble
	}

	switch c.Search.Provider {
	case ProviderNewsAPI, ProviderTavily:
	case ProviderSearXNG:
		if c.Search.SearXNG.BaseURL == "" {
			return ErrMissingSearXNGBase
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Search.Provider)
	}

	if c.Output.ArticlesFile == "" || c.Output.GeneratedFile == "" {
		return ErrMissingOutputPath
	}

	if c.Concurrency.Workers < 0 || c.Concurrency.QPS < 0 || c.Concurrency.RPM < 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
