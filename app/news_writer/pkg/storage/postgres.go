package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/config"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS generation_runs (
	id         SERIAL PRIMARY KEY,
	profile    TEXT NOT NULL,
	fetched    INTEGER NOT NULL DEFAULT 0,
	cleaned    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS generated_articles (
	id            SERIAL PRIMARY KEY,
	run_id        INTEGER NOT NULL REFERENCES generation_runs(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	original_text TEXT NOT NULL,
	ai_article    TEXT NOT NULL
);`

// Archive 把每次运行的生成结果归档到 PostgreSQL
type Archive struct {
	db *sql.DB
}

// DSN 按配置拼接 lib/pq 连接串
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// NewArchive 连接数据库并创建表
func NewArchive(ctx context.Context, cfg config.DBConfig) (*Archive, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun 在一个事务中写入运行记录和全部生成结果，返回运行 ID
func (a *Archive) SaveRun(ctx context.Context, profile string, fetched, cleaned int, records []model.GeneratedRecord) (int, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	var runID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO generation_runs (profile, fetched, cleaned) VALUES ($1, $2, $3) RETURNING id`,
		profile, fetched, cleaned,
	).Scan(&runID)
	if err != nil {
		return 0, rollback(tx, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO generated_articles (run_id, position, original_text, ai_article) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return 0, rollback(tx, err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, i, sanitizeText(r.OriginalText), sanitizeText(r.AIArticle)); err != nil {
			return 0, rollback(tx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func rollback(tx *sql.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

// sanitizeText 移除无效的 UTF-8 字符和 NULL 字节，PostgreSQL 文本字段不接受两者
func sanitizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.ReplaceAll(s, "\x00", "")
}
