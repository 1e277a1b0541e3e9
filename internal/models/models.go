package models

import "time"

const (
	SourceArxiv       = "arxiv"
	SourceHuggingFace = "huggingface"
)

// EtAlMarker is appended to an author list that was cut short.
const EtAlMarker = "et al."

// MaxAuthors bounds how many author names are kept or rendered.
const MaxAuthors = 5

type Article struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	Authors        []string   `json:"authors"`
	URL            string     `json:"url"`
	PDFURL         string     `json:"pdf_url,omitempty"`
	Published      *time.Time `json:"published,omitempty"`
	Source         string     `json:"source"`
	Categories     []string   `json:"categories"`
	FetchedAt      time.Time  `json:"fetched_at"`
	RelevanceScore float64    `json:"relevance_score"`
}

// Draft holds generated text. SourceTitle and SourceURL are copied from the
// article when the draft is generated and are not kept in sync afterwards.
type Draft struct {
	ID          int64     `json:"id"`
	ArticleID   string    `json:"article_id"`
	Content     string    `json:"content"`
	SourceTitle string    `json:"source_title"`
	SourceURL   string    `json:"source_url"`
	GeneratedAt time.Time `json:"generated_at"`
	Model       string    `json:"model"`
	TokensUsed  int       `json:"tokens_used"`
}
