package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"repurposer/internal/models"

	"github.com/mmcdole/gofeed/atom"
)

// DefaultTopics are OR'd together for the scheduled arXiv pull. Only the
// first defaultTopicCount are used to keep the query short.
var DefaultTopics = []string{
	"diffusion models image generation",
	"text to image generation",
	"video synthesis deep learning",
	"LoRA fine-tuning",
	"stable diffusion training",
	"generative adversarial networks images",
	"neural network image editing",
	"AI video generation",
}

const defaultTopicCount = 4

func defaultTopicQuery() string {
	quoted := make([]string, 0, defaultTopicCount)
	for _, topic := range DefaultTopics[:defaultTopicCount] {
		quoted = append(quoted, strconv.Quote(topic))
	}
	return strings.Join(quoted, " OR ")
}

func arxivSearchQuery(category, query string) string {
	if category == "" {
		return query
	}
	return fmt.Sprintf("cat:%s AND (%s)", category, query)
}

// FetchArxiv queries the arXiv API sorted by submission date, newest first.
func (f *Fetcher) FetchArxiv(ctx context.Context, query string, maxResults int) ([]models.Article, error) {
	if strings.TrimSpace(query) == "" {
		query = defaultTopicQuery()
	}
	params := url.Values{}
	params.Set("search_query", arxivSearchQuery(f.category, query))
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.arxivURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build arxiv request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("arxiv status %d", resp.StatusCode)
	}

	feed, err := (&atom.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}
	fetchedAt := f.now()
	out := make([]models.Article, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if len(out) >= maxResults {
			break
		}
		a, ok := f.arxivArticle(e)
		if !ok {
			continue
		}
		a.FetchedAt = fetchedAt
		out = append(out, a)
	}
	return out, nil
}

func (f *Fetcher) arxivArticle(e *atom.Entry) (models.Article, bool) {
	link := strings.TrimSpace(e.ID)
	title := f.norm.text(e.Title)
	if link == "" || title == "" {
		return models.Article{}, false
	}
	names := make([]string, 0, len(e.Authors))
	for _, p := range e.Authors {
		if p != nil {
			names = append(names, p.Name)
		}
	}
	categories := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		if c != nil {
			categories = append(categories, c.Term)
		}
	}
	a := models.Article{
		ID:         ArticleID(link),
		Title:      title,
		Summary:    f.norm.text(e.Summary),
		Authors:    f.norm.authors(names),
		URL:        link,
		PDFURL:     arxivPDFLink(e.Links),
		Source:     models.SourceArxiv,
		Categories: trimAll(categories),
	}
	if e.PublishedParsed != nil {
		t := e.PublishedParsed.UTC()
		a.Published = &t
	}
	return a, true
}

func arxivPDFLink(links []*atom.Link) string {
	for _, l := range links {
		if l == nil {
			continue
		}
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}
