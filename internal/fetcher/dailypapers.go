package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"repurposer/internal/models"
)

const hfPaperURLPrefix = "https://huggingface.co/papers/"

type dailyPaper struct {
	Paper struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"paper"`
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
}

// FetchDailyPapers reads the daily-papers JSON listing. Only the first
// maxResults entries are considered; entries without a title or a paper id
// are dropped.
func (f *Fetcher) FetchDailyPapers(ctx context.Context, maxResults int) ([]models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.hfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build daily papers request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daily papers request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daily papers status %d", resp.StatusCode)
	}

	var listing []dailyPaper
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode daily papers: %w", err)
	}
	if maxResults >= 0 && len(listing) > maxResults {
		listing = listing[:maxResults]
	}

	fetchedAt := f.now()
	out := make([]models.Article, 0, len(listing))
	for _, item := range listing {
		title := f.norm.text(item.Paper.Title)
		if title == "" {
			title = f.norm.text(item.Title)
		}
		paperID := strings.TrimSpace(item.Paper.ID)
		if title == "" || paperID == "" {
			continue
		}
		link := hfPaperURLPrefix + paperID
		names := make([]string, 0, len(item.Paper.Authors))
		for _, au := range item.Paper.Authors {
			names = append(names, au.Name)
		}
		a := models.Article{
			ID:         ArticleID(link),
			Title:      title,
			Summary:    f.norm.text(item.Paper.Summary),
			Authors:    f.norm.authors(names),
			URL:        link,
			Source:     models.SourceHuggingFace,
			Categories: []string{},
			FetchedAt:  fetchedAt,
		}
		if t, err := time.Parse(time.RFC3339Nano, item.PublishedAt); err == nil {
			t = t.UTC()
			a.Published = &t
		}
		out = append(out, a)
	}
	return out, nil
}
