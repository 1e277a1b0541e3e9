package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"repurposer/internal/config"
	"repurposer/internal/generator"
	"repurposer/internal/models"
	"repurposer/internal/providers"
	"repurposer/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	all      []models.Article
	search   []models.Article
	lastTerm string
}

func (f *fakeFetcher) FetchAll(context.Context) []models.Article { return f.all }

func (f *fakeFetcher) Search(_ context.Context, q string) []models.Article {
	f.lastTerm = q
	return f.search
}

type fakeGenerator struct {
	err   error
	calls int
}

func (g *fakeGenerator) Generate(_ context.Context, a models.Article) (models.Draft, error) {
	g.calls++
	if g.err != nil {
		return models.Draft{}, g.err
	}
	return models.Draft{
		ArticleID:   a.ID,
		Content:     "# " + a.Title,
		SourceTitle: a.Title,
		SourceURL:   a.URL,
		GeneratedAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		Model:       "claude-sonnet-4-20250514",
		TokensUsed:  2000,
	}, nil
}

type testEnv struct {
	srv      *Server
	articles *storage.ArticleRepo
	drafts   *storage.DraftRepo
	fetcher  *fakeFetcher
}

func newTestEnv(t *testing.T, gen DraftGenerator) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := storage.NewDB(ctx, filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Init(ctx))

	env := &testEnv{
		articles: storage.NewArticleRepo(db),
		drafts:   storage.NewDraftRepo(db),
		fetcher:  &fakeFetcher{},
	}
	env.srv = NewServer(config.Config{APIAddr: ":0"}, Deps{
		Articles:  env.articles,
		Drafts:    env.drafts,
		Fetcher:   env.fetcher,
		Generator: gen,
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.srv.Routes().ServeHTTP(rec, req)
	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func article(id, title string, fetchedAt time.Time) models.Article {
	return models.Article{
		ID:        id,
		Title:     title,
		Summary:   "Abstract for " + title,
		Authors:   []string{"A", "B", "C", "D", "E", models.EtAlMarker},
		URL:       "http://arxiv.org/abs/" + id,
		Source:    models.SourceArxiv,
		FetchedAt: fetchedAt,
	}
}

func (env *testEnv) seed(t *testing.T, articles ...models.Article) {
	t.Helper()
	for _, a := range articles {
		require.NoError(t, env.articles.SaveArticle(context.Background(), a))
	}
}

func (env *testEnv) draftCount(t *testing.T) int {
	t.Helper()
	drafts, err := env.drafts.ListDrafts(context.Background(), 100)
	require.NoError(t, err)
	return len(drafts)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec, body := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
}

func TestIndexServesDashboard(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec, _ := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/generate")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec, _ := env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec, _ := env.do(t, http.MethodGet, "/api/articles", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestFetchSavesArticles(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	now := time.Now().UTC()
	env.fetcher.all = []models.Article{article("aaaaaaaaaaaa", "One", now), article("bbbbbbbbbbbb", "Two", now)}

	rec, body := env.do(t, http.MethodPost, "/api/fetch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "Found 2 new articles", body["message"])

	got, err := env.articles.GetArticle(context.Background(), "bbbbbbbbbbbb")
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Title)
}

func TestFetchWithNothingUpstream(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec, body := env.do(t, http.MethodPost, "/api/fetch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, "Found 0 new articles", body["message"])
}

type failingArticles struct {
	ArticleStore
	err error
}

func (f failingArticles) SaveArticle(context.Context, models.Article) error { return f.err }

func TestFetchStoreFailureIs500(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	env.fetcher.all = []models.Article{article("aaaaaaaaaaaa", "One", time.Now().UTC())}
	env.srv.articles = failingArticles{ArticleStore: env.articles, err: errors.New("disk full")}

	rec, out := env.do(t, http.MethodPost, "/api/fetch", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "disk full", out["error"])
}

func TestSearchStoreFailureIs500(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	env.fetcher.search = []models.Article{article("dddddddddddd", "Motion Transfer", time.Now().UTC())}
	env.srv.articles = failingArticles{ArticleStore: env.articles, err: errors.New("disk full")}

	rec, out := env.do(t, http.MethodPost, "/api/search", `{"query":"motion transfer"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "disk full", out["error"])
	assert.Nil(t, out["articles"])
}

func TestListArticlesNewestFirstWithLimit(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	base := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	env.seed(t,
		article("aaaaaaaaaaaa", "Old", base),
		article("bbbbbbbbbbbb", "Newest", base.Add(2*time.Hour)),
		article("cccccccccccc", "Middle", base.Add(time.Hour)),
	)

	rec := httptest.NewRecorder()
	env.srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Newest", got[0].Title)
	assert.Equal(t, "Middle", got[1].Title)
}

func TestListArticlesEmptyIsArray(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec := httptest.NewRecorder()
	env.srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGenerateRequiresArticleID(t *testing.T) {
	gen := &fakeGenerator{}
	env := newTestEnv(t, gen)
	for _, body := range []string{"", `{}`, `{"article_id":"  "}`} {
		rec, out := env.do(t, http.MethodPost, "/api/generate", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "No article ID provided", out["error"])
	}
	assert.Zero(t, gen.calls)
}

func TestGenerateInvalidJSON(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	rec, out := env.do(t, http.MethodPost, "/api/generate", `{"article_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "invalid json")
}

func TestGenerateUnknownArticle(t *testing.T) {
	gen := &fakeGenerator{}
	env := newTestEnv(t, gen)
	rec, out := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"doesnotexist"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", out["error"])
	assert.Zero(t, gen.calls)
	assert.Zero(t, env.draftCount(t))
}

func TestGenerateSavesDraft(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	env.seed(t, article("aaaaaaaaaaaa", "Seeing Motion", time.Now().UTC()))

	rec, out := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"aaaaaaaaaaaa"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, out["success"])
	id := int64(out["draft_id"].(float64))
	assert.Positive(t, id)

	draft, ok := out["draft"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "# Seeing Motion", draft["content"])
	assert.Equal(t, "claude-sonnet-4-20250514", draft["model"])

	stored, err := env.drafts.GetDraft(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaaaa", stored.ArticleID)
	assert.Equal(t, 2000, stored.TokensUsed)
}

func TestGenerateFailureIs500(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{err: errors.New("anthropic generate error 529: overloaded")})
	env.seed(t, article("aaaaaaaaaaaa", "Seeing Motion", time.Now().UTC()))

	rec, out := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"aaaaaaaaaaaa"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "overloaded")
	assert.Zero(t, env.draftCount(t))
}

func TestGenerateMissingCredential(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer upstream.Close()

	gen := generator.New(providers.NewAnthropicProvider("", "", upstream.URL), 4096)
	env := newTestEnv(t, gen)
	env.seed(t, article("aaaaaaaaaaaa", "Seeing Motion", time.Now().UTC()))

	rec, out := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"aaaaaaaaaaaa"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, out["error"], "ANTHROPIC_API_KEY")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	assert.Zero(t, env.draftCount(t))
}

func TestGenerateWithMockProvider(t *testing.T) {
	env := newTestEnv(t, generator.New(providers.NewMockProvider("mock-llm-v1"), 4096))
	env.seed(t, article("aaaaaaaaaaaa", "Seeing Motion", time.Now().UTC()))

	rec, out := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"aaaaaaaaaaaa"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	draft := out["draft"].(map[string]any)
	assert.NotEmpty(t, draft["content"])
	assert.Equal(t, "mock-llm-v1", draft["model"])
}

func TestDraftsListAndGet(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	env.seed(t, article("aaaaaaaaaaaa", "Seeing Motion", time.Now().UTC()))
	_, first := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"aaaaaaaaaaaa"}`)
	_, second := env.do(t, http.MethodPost, "/api/generate", `{"article_id":"aaaaaaaaaaaa"}`)
	assert.Greater(t, second["draft_id"].(float64), first["draft_id"].(float64))

	rec := httptest.NewRecorder()
	env.srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/drafts?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec, out := env.do(t, http.MethodGet, "/api/drafts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Seeing Motion", out["source_title"])
}

func TestDraftNotFound(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	for _, path := range []string{"/api/drafts/999", "/api/drafts/abc"} {
		rec, out := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "Draft not found", out["error"])
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	for _, body := range []string{"", `{}`, `{"query":""}`} {
		rec, out := env.do(t, http.MethodPost, "/api/search", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "No search query provided", out["error"])
	}
}

func TestSearchSavesResults(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	env.fetcher.search = []models.Article{article("dddddddddddd", "Motion Transfer", time.Now().UTC())}

	rec, out := env.do(t, http.MethodPost, "/api/search", `{"query":"motion transfer"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "motion transfer", env.fetcher.lastTerm)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(1), out["count"])
	assert.Len(t, out["articles"], 1)

	_, err := env.articles.GetArticle(context.Background(), "dddddddddddd")
	require.NoError(t, err)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})
	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
