package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/model"
)

// 输出文件表头
var (
	ArticleHeader = []string{"title", "description", "url", "publishedAt", "source"}
	CleanedHeader = []string{"title", "description", "url", "publishedAt", "source", "text_for_ai"}
	RecordHeader  = []string{"original_text", "ai_article"}
)

// ErrMissingColumn 读取的文件缺少必需的列
var ErrMissingColumn = errors.New("missing column")

// WriteArticles 覆盖写入原始文章
func WriteArticles(path string, articles []model.Article) error {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{a.Title, a.Description, a.URL, a.PublishedAt, a.Source})
	}
	return writeCSV(path, ArticleHeader, rows)
}

// WriteCleaned 覆盖写入清洗后的文章
func WriteCleaned(path string, articles []model.CleanedArticle) error {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{a.Title, a.Description, a.URL, a.PublishedAt, a.Source, a.TextForAI})
	}
	return writeCSV(path, CleanedHeader, rows)
}

// WriteRecords 覆盖写入原文与生成文章
func WriteRecords(path string, records []model.GeneratedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.OriginalText, r.AIArticle})
	}
	return writeCSV(path, RecordHeader, rows)
}

// ReadArticles 读取 WriteArticles 写出的文件，按表头名定位列，空单元格读为空字符串
func ReadArticles(path string) ([]model.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []model.Article{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range ArticleHeader {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, name, path)
		}
	}

	articles := []model.Article{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		articles = append(articles, model.Article{
			Title:       row[index["title"]],
			Description: row[index["description"]],
			URL:         row[index["url"]],
			PublishedAt: row[index["publishedAt"]],
			Source:      row[index["source"]],
		})
	}
	return articles, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}

	return f.Close()
}
