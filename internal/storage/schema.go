package storage

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  summary TEXT,
  authors TEXT,
  url TEXT,
  pdf_url TEXT,
  published TEXT,
  source TEXT,
  categories TEXT,
  fetched_at TEXT,
  relevance_score REAL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS drafts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  article_id TEXT,
  content TEXT NOT NULL,
  source_title TEXT,
  source_url TEXT,
  generated_at TEXT,
  model TEXT,
  tokens_used INTEGER
)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_fetched_at ON articles (fetched_at)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_generated_at ON drafts (generated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_article_id ON drafts (article_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  summary TEXT,
  authors TEXT,
  url TEXT,
  pdf_url TEXT,
  published TEXT,
  source TEXT,
  categories TEXT,
  fetched_at TEXT,
  relevance_score DOUBLE PRECISION DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS drafts (
  id BIGSERIAL PRIMARY KEY,
  article_id TEXT,
  content TEXT NOT NULL,
  source_title TEXT,
  source_url TEXT,
  generated_at TEXT,
  model TEXT,
  tokens_used INTEGER
)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_fetched_at ON articles (fetched_at)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_generated_at ON drafts (generated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_article_id ON drafts (article_id)`,
}

func schemaFor(d Dialect) []string {
	if d == DialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}
