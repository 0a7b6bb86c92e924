package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/cleaner"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/config"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/generator"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/logger"
	dm "github.com/iWorld-y/news_writer/app/news_writer/pkg/model"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/prompt"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/search"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/search/factory"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/storage"
)

// Archiver 运行结果归档，nil 表示不归档
type Archiver interface {
	SaveRun(ctx context.Context, profile string, fetched, cleaned int, records []dm.GeneratedRecord) (int, error)
}

// Engine 核心处理引擎
type Engine struct {
	cfg       *config.Config
	searcher  search.Searcher
	generator *generator.Generator
	cleaner   cleaner.Cleaner
	prompts   prompt.Builder
	archive   Archiver
	now       func() time.Time
}

// Summary 一次运行的统计
type Summary struct {
	Fetched   int
	Cleaned   int
	Generated int
	Failed    int
	RunID     int // 归档后的运行 ID，未归档为 0
}

// NewEngine 创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config, archive Archiver) (*Engine, error) {
	chatModel, err := generator.NewOpenAIChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	return newEngine(cfg, searcher, chatModel, archive), nil
}

func newEngine(cfg *config.Config, searcher search.Searcher, cm model.BaseChatModel, archive Archiver) *Engine {
	limiter := generator.NewLimiter(cfg.Concurrency.QPS, cfg.Concurrency.RPM)
	if limiter != nil {
		logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limiter.Limit(), limiter.Burst())
	}

	return &Engine{
		cfg:       cfg,
		searcher:  searcher,
		generator: generator.New(cm, cfg.LLM.Temperature, generator.WithLimiter(limiter)),
		cleaner:   cleaner.Cleaner{IncludeURL: cfg.Query.IncludeURL},
		prompts:   prompt.Builder{Preamble: cfg.Prompt.Preamble, Suffix: cfg.Prompt.Suffix},
		archive:   archive,
		now:       time.Now,
	}
}

// Run 执行一次抓取与生成。只有输出文件读写失败时返回 error
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	out := e.cfg.Output
	summary := &Summary{}

	// 1. 搜索
	raw := e.fetch(ctx)
	summary.Fetched = len(raw)

	// 2. 保存原始文章并重新读回
	if err := storage.WriteArticles(out.ArticlesFile, raw); err != nil {
		return summary, fmt.Errorf("save articles: %w", err)
	}
	logger.Log.Infof("已保存新闻到 %s", out.ArticlesFile)

	articles, err := storage.ReadArticles(out.ArticlesFile)
	if err != nil {
		return summary, fmt.Errorf("reload articles: %w", err)
	}
	for i, a := range articles {
		if i == 5 {
			break
		}
		logger.Log.Debugf("文章 %d: %s | %s | %s", i+1, a.Title, a.Source, a.PublishedAt)
	}

	// 3. 清洗
	cleaned, stats := e.cleaner.Clean(articles)
	summary.Cleaned = len(cleaned)
	logger.Log.Infof("清洗后剩余 %d 篇文章 (缺失字段 %d, 重复标题 %d)", stats.Output, stats.Missing, stats.Duplicates)

	if out.CleanedFile != "" {
		if err := storage.WriteCleaned(out.CleanedFile, cleaned); err != nil {
			return summary, fmt.Errorf("save cleaned articles: %w", err)
		}
	}

	// 4. 构建 prompt
	prompts := make([]string, len(cleaned))
	for i, a := range cleaned {
		prompts[i] = e.prompts.Build(a.TextForAI)
	}
	if len(prompts) > 0 {
		logger.Log.Debugf("第一条 prompt:\n%s", prompts[0])
	}

	// 5. 生成
	results := e.generator.GenerateAll(ctx, prompts, e.cfg.Concurrency.Workers)
	records := make([]dm.GeneratedRecord, len(cleaned))
	for i, a := range cleaned {
		records[i] = dm.GeneratedRecord{OriginalText: a.TextForAI, AIArticle: results[i].Text}
		if results[i].OK() {
			summary.Generated++
		} else {
			summary.Failed++
		}
	}

	// 6. 保存生成结果
	if err := storage.WriteRecords(out.GeneratedFile, records); err != nil {
		return summary, fmt.Errorf("save generated articles: %w", err)
	}
	logger.Log.Infof("全部生成文章已保存到 %s (成功 %d, 失败 %d)", out.GeneratedFile, summary.Generated, summary.Failed)

	// 归档失败不影响本次运行
	if e.archive != nil {
		runID, err := e.archive.SaveRun(ctx, e.cfg.Profile, summary.Fetched, summary.Cleaned, records)
		if err != nil {
			logger.Log.Errorf("归档到数据库失败: %v", err)
		} else {
			summary.RunID = runID
			logger.Log.Infof("已归档到数据库, run_id=%d", runID)
		}
	}

	return summary, nil
}

// fetch 搜索失败时记录错误并返回空列表
func (e *Engine) fetch(ctx context.Context) []dm.Article {
	req := e.request()

	resp, err := e.searcher.Search(ctx, req)
	if err != nil {
		logger.Log.Errorf("抓取新闻失败: %v", err)
		return []dm.Article{}
	}

	articles := make([]dm.Article, 0, len(resp.Results))
	for _, r := range resp.Results {
		articles = append(articles, dm.Article{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			PublishedAt: r.PublishedAt,
			Source:      r.SourceName,
		})
	}
	logger.Log.Infof("已抓取 %d 篇文章", len(articles))
	return articles
}

func (e *Engine) request() *search.Request {
	q := e.cfg.Query
	req := &search.Request{
		Query:    q.Keywords,
		Language: q.Language,
		SortBy:   q.SortBy,
		Sources:  q.Sources,
		PageSize: q.PageSize,
	}
	if q.Recency > 0 {
		req.From = e.now().UTC().Add(-q.Recency)
	}
	return req
}
