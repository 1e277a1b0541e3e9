package api

import (
	"context"
	"embed"
	"log/slog"
	"net/http"

	"repurposer/internal/config"
	"repurposer/internal/logger"
	"repurposer/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed web/index.html
var webFS embed.FS

type ArticleStore interface {
	SaveArticle(ctx context.Context, a models.Article) error
	GetArticle(ctx context.Context, id string) (models.Article, error)
	ListArticles(ctx context.Context, limit int) ([]models.Article, error)
}

type DraftStore interface {
	SaveDraft(ctx context.Context, d models.Draft, articleID string) (int64, error)
	GetDraft(ctx context.Context, id int64) (models.Draft, error)
	ListDrafts(ctx context.Context, limit int) ([]models.Draft, error)
}

// ContentFetcher absorbs upstream failures, so it has no error return.
type ContentFetcher interface {
	FetchAll(ctx context.Context) []models.Article
	Search(ctx context.Context, query string) []models.Article
}

type DraftGenerator interface {
	Generate(ctx context.Context, a models.Article) (models.Draft, error)
}

type Deps struct {
	Articles  ArticleStore
	Drafts    DraftStore
	Fetcher   ContentFetcher
	Generator DraftGenerator
}

type Server struct {
	cfg       config.Config
	articles  ArticleStore
	drafts    DraftStore
	fetcher   ContentFetcher
	generator DraftGenerator
	e         *echo.Echo
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

func NewServer(cfg config.Config, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		articles:  deps.Articles,
		drafts:    deps.Drafts,
		fetcher:   deps.Fetcher,
		generator: deps.Generator,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{v: validator.New()}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), id)))
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	e.GET("/", s.handleIndex)
	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/api")
	g.POST("/fetch", s.handleFetch)
	g.GET("/articles", s.handleArticles)
	g.POST("/generate", s.handleGenerate)
	g.GET("/drafts", s.handleDrafts)
	g.GET("/drafts/:id", s.handleDraft)
	g.POST("/search", s.handleSearch)

	s.e = e
	return s
}

func (s *Server) Routes() http.Handler {
	return s.e
}

func (s *Server) Start() error {
	slog.Info("starting api server", "addr", s.cfg.APIAddr)
	return s.e.Start(s.cfg.APIAddr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) handleIndex(c echo.Context) error {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
