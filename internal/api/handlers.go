package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"repurposer/internal/models"
	"repurposer/internal/storage"
	"repurposer/internal/util"

	"github.com/labstack/echo/v4"
)

type generateRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

// decodeBody reads an optional JSON body. An empty body leaves dst at its
// zero value so the caller's required-field check reports it.
func decodeBody(c echo.Context, dst any) error {
	err := json.NewDecoder(c.Request().Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("invalid json: %w", err)
}

func queryLimit(c echo.Context, def int) int {
	n, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (s *Server) saveAll(c echo.Context, articles []models.Article) error {
	for _, a := range articles {
		if err := s.articles.SaveArticle(c.Request().Context(), a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleFetch(c echo.Context) error {
	articles := s.fetcher.FetchAll(c.Request().Context())
	if err := s.saveAll(c, articles); err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"count":   len(articles),
		"message": fmt.Sprintf("Found %d new articles", len(articles)),
	})
}

func (s *Server) handleArticles(c echo.Context) error {
	articles, err := s.articles.ListArticles(c.Request().Context(), queryLimit(c, storage.DefaultArticleLimit))
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) handleGenerate(c echo.Context) error {
	var req generateRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	req.ArticleID = strings.TrimSpace(req.ArticleID)
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "No article ID provided")
	}

	ctx := c.Request().Context()
	article, err := s.articles.GetArticle(ctx, req.ArticleID)
	if errors.Is(err, util.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Article not found")
	}
	if err != nil {
		return failErr(c, err)
	}

	draft, err := s.generator.Generate(ctx, article)
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	id, err := s.drafts.SaveDraft(ctx, draft, article.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	draft.ID = id
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"draft_id": id,
		"draft":    draft,
	})
}

func (s *Server) handleDrafts(c echo.Context) error {
	drafts, err := s.drafts.ListDrafts(c.Request().Context(), queryLimit(c, storage.DefaultDraftLimit))
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, drafts)
}

func (s *Server) handleDraft(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "Draft not found")
	}
	draft, err := s.drafts.GetDraft(c.Request().Context(), id)
	if errors.Is(err, util.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Draft not found")
	}
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

func (s *Server) handleSearch(c echo.Context) error {
	var req searchRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	req.Query = strings.TrimSpace(req.Query)
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "No search query provided")
	}

	articles := s.fetcher.Search(c.Request().Context(), req.Query)
	if err := s.saveAll(c, articles); err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(articles),
		"message":  fmt.Sprintf("Found %d articles", len(articles)),
		"articles": articles,
	})
}
