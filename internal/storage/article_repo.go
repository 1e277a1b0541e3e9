package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"repurposer/internal/models"
	"repurposer/internal/util"
)

const DefaultArticleLimit = 50

const articleColumns = `id, title, COALESCE(summary,''), authors, COALESCE(url,''), COALESCE(pdf_url,''),
       published, COALESCE(source,''), categories, COALESCE(fetched_at,''), COALESCE(relevance_score,0)`

type ArticleRepo struct {
	db *DB
}

func NewArticleRepo(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// SaveArticle inserts a or replaces the row that already holds a.ID.
func (r *ArticleRepo) SaveArticle(ctx context.Context, a models.Article) error {
	if a.ID == "" {
		return fmt.Errorf("save article: empty id: %w", util.ErrInvalidInput)
	}
	authors, err := encodeList(a.Authors)
	if err != nil {
		return fmt.Errorf("save article %s: %w", a.ID, err)
	}
	categories, err := encodeList(a.Categories)
	if err != nil {
		return fmt.Errorf("save article %s: %w", a.ID, err)
	}
	var published any
	if a.Published != nil {
		published = formatTime(*a.Published)
	}
	fetchedAt := a.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	_, err = r.db.Conn.ExecContext(ctx, r.db.rebind(`
INSERT INTO articles (id, title, summary, authors, url, pdf_url, published, source, categories, fetched_at, relevance_score)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id)
DO UPDATE SET
  title = excluded.title,
  summary = excluded.summary,
  authors = excluded.authors,
  url = excluded.url,
  pdf_url = excluded.pdf_url,
  published = excluded.published,
  source = excluded.source,
  categories = excluded.categories,
  fetched_at = excluded.fetched_at,
  relevance_score = excluded.relevance_score`),
		a.ID, a.Title, a.Summary, authors, a.URL, a.PDFURL, published, a.Source, categories, formatTime(fetchedAt), a.RelevanceScore,
	)
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

func (r *ArticleRepo) GetArticle(ctx context.Context, id string) (models.Article, error) {
	row := r.db.Conn.QueryRowContext(ctx, r.db.rebind(`SELECT `+articleColumns+` FROM articles WHERE id = ?`), id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, fmt.Errorf("article %s: %w", id, util.ErrNotFound)
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// ListArticles returns at most limit articles, most recently fetched first.
func (r *ArticleRepo) ListArticles(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = DefaultArticleLimit
	}
	rows, err := r.db.Conn.QueryContext(ctx, r.db.rebind(`
SELECT `+articleColumns+`
FROM articles
ORDER BY fetched_at DESC, id ASC
LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner) (models.Article, error) {
	var (
		a          models.Article
		authors    sql.NullString
		categories sql.NullString
		published  sql.NullString
		fetchedAt  string
	)
	if err := s.Scan(&a.ID, &a.Title, &a.Summary, &authors, &a.URL, &a.PDFURL, &published, &a.Source, &categories, &fetchedAt, &a.RelevanceScore); err != nil {
		return models.Article{}, err
	}
	var err error
	if a.Authors, err = decodeList(authors); err != nil {
		return models.Article{}, err
	}
	if a.Categories, err = decodeList(categories); err != nil {
		return models.Article{}, err
	}
	if published.Valid && published.String != "" {
		t, err := parseTime(published.String)
		if err != nil {
			return models.Article{}, err
		}
		a.Published = &t
	}
	if a.FetchedAt, err = parseTime(fetchedAt); err != nil {
		return models.Article{}, err
	}
	return a, nil
}
