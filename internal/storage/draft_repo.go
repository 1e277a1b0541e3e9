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

const DefaultDraftLimit = 20

const draftColumns = `id, COALESCE(article_id,''), content, COALESCE(source_title,''), COALESCE(source_url,''),
       COALESCE(generated_at,''), COALESCE(model,''), COALESCE(tokens_used,0)`

type DraftRepo struct {
	db *DB
}

func NewDraftRepo(db *DB) *DraftRepo {
	return &DraftRepo{db: db}
}

// SaveDraft always appends a new row and returns its id. articleID is not
// checked against the articles table.
func (r *DraftRepo) SaveDraft(ctx context.Context, d models.Draft, articleID string) (int64, error) {
	generatedAt := d.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	var id int64
	err := r.db.Conn.QueryRowContext(ctx, r.db.rebind(`
INSERT INTO drafts (article_id, content, source_title, source_url, generated_at, model, tokens_used)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`),
		articleID, d.Content, d.SourceTitle, d.SourceURL, formatTime(generatedAt), d.Model, d.TokensUsed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert draft: %w", err)
	}
	return id, nil
}

func (r *DraftRepo) GetDraft(ctx context.Context, id int64) (models.Draft, error) {
	row := r.db.Conn.QueryRowContext(ctx, r.db.rebind(`SELECT `+draftColumns+` FROM drafts WHERE id = ?`), id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Draft{}, fmt.Errorf("draft %d: %w", id, util.ErrNotFound)
	}
	if err != nil {
		return models.Draft{}, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

func (r *DraftRepo) ListDrafts(ctx context.Context, limit int) ([]models.Draft, error) {
	if limit <= 0 {
		limit = DefaultDraftLimit
	}
	rows, err := r.db.Conn.QueryContext(ctx, r.db.rebind(`
SELECT `+draftColumns+`
FROM drafts
ORDER BY generated_at DESC, id DESC
LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Draft, 0)
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return out, nil
}

func scanDraft(s rowScanner) (models.Draft, error) {
	var (
		d           models.Draft
		generatedAt string
	)
	if err := s.Scan(&d.ID, &d.ArticleID, &d.Content, &d.SourceTitle, &d.SourceURL, &generatedAt, &d.Model, &d.TokensUsed); err != nil {
		return models.Draft{}, err
	}
	t, err := parseTime(generatedAt)
	if err != nil {
		return models.Draft{}, err
	}
	d.GeneratedAt = t
	return d, nil
}
