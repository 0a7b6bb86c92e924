// Package cleaner 过滤缺失字段的文章并按标题去重
package cleaner

import (
	"strings"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/model"
)

// Stats 一次清洗的统计
type Stats struct {
	Input      int
	Missing    int // 标题或摘要为空
	Duplicates int // 标题重复
	Output     int
}

// Cleaner 清洗器，IncludeURL 控制 text_for_ai 是否附带链接
type Cleaner struct {
	IncludeURL bool
}

// Clean 丢弃标题或摘要为空的记录，同标题只保留第一条，保持输入顺序
func (c Cleaner) Clean(articles []model.Article) ([]model.CleanedArticle, Stats) {
	stats := Stats{Input: len(articles)}
	out := make([]model.CleanedArticle, 0, len(articles))
	seen := make(map[string]struct{}, len(articles))

	for _, a := range articles {
		if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Description) == "" {
			stats.Missing++
			continue
		}
		if _, ok := seen[a.Title]; ok {
			stats.Duplicates++
			continue
		}
		seen[a.Title] = struct{}{}

		out = append(out, model.CleanedArticle{
			Article:   a,
			TextForAI: c.TextForAI(a),
		})
	}

	stats.Output = len(out)
	return out, stats
}

// TextForAI 拼接标题、摘要和（可选的）链接
func (c Cleaner) TextForAI(a model.Article) string {
	text := a.Title + ". " + a.Description
	if c.IncludeURL && a.URL != "" {
		text += " (" + a.URL + ")"
	}
	return text
}
