package model

// Article 新闻搜索接口返回的原始文章，空字符串表示字段缺失
type Article struct {
	Title       string
	Description string
	URL         string
	PublishedAt string
	Source      string
}

// CleanedArticle 清洗后的文章，标题与摘要均非空
type CleanedArticle struct {
	Article
	TextForAI string // 拼接后送入 prompt 的文本
}

// GeneratedRecord 原文与 AI 改写结果的配对，生成失败时 AIArticle 为空
type GeneratedRecord struct {
	OriginalText string
	AIArticle    string
}
