package fetcher

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"repurposer/internal/config"
	"repurposer/internal/metrics"
	"repurposer/internal/models"
)

const requestTimeout = 10 * time.Second

type Fetcher struct {
	arxivURL  string
	category  string
	hfURL     string
	fetchMax  int
	hfMax     int
	searchMax int
	client    *http.Client
	norm      *normalizer
	now       func() time.Time
}

func New(cfg config.Config) *Fetcher {
	return &Fetcher{
		arxivURL:  strings.TrimRight(cfg.ArxivAPIURL, "?"),
		category:  cfg.ArxivCategory,
		hfURL:     cfg.HFPapersURL,
		fetchMax:  cfg.FetchMaxResults,
		hfMax:     cfg.HFMaxResults,
		searchMax: cfg.SearchMaxResults,
		client:    &http.Client{Timeout: requestTimeout},
		norm:      newNormalizer(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// FetchAll pulls the default topic query from arXiv and the daily-papers
// listing. A failing source is logged and contributes no articles; it never
// fails the call.
func (f *Fetcher) FetchAll(ctx context.Context) []models.Article {
	articles := f.absorb(ctx, models.SourceArxiv, func() ([]models.Article, error) {
		return f.FetchArxiv(ctx, "", f.fetchMax)
	})
	daily := f.absorb(ctx, models.SourceHuggingFace, func() ([]models.Article, error) {
		return f.FetchDailyPapers(ctx, f.hfMax)
	})
	return append(articles, daily...)
}

// Search runs query against arXiv in place of the default topics.
func (f *Fetcher) Search(ctx context.Context, query string) []models.Article {
	return f.absorb(ctx, models.SourceArxiv, func() ([]models.Article, error) {
		return f.FetchArxiv(ctx, query, f.searchMax)
	})
}

func (f *Fetcher) absorb(ctx context.Context, source string, fetch func() ([]models.Article, error)) []models.Article {
	articles, err := fetch()
	if err != nil {
		slog.WarnContext(ctx, "source fetch failed", "source", source, "error", err)
		metrics.RecordFetchError(source)
		return []models.Article{}
	}
	slog.InfoContext(ctx, "source fetched", "source", source, "count", len(articles))
	metrics.RecordFetch(source, len(articles))
	return articles
}
