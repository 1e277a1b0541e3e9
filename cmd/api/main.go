package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repurposer/internal/api"
	"repurposer/internal/config"
	"repurposer/internal/fetcher"
	"repurposer/internal/generator"
	"repurposer/internal/logger"
	"repurposer/internal/providers"
	"repurposer/internal/storage"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := storage.NewDB(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = db.Init(initCtx)
	}
	cancel()
	if err != nil {
		slog.Error("failed to open database", "dsn_dialect", storage.DialectForDSN(cfg.DatabaseURL), "error", err)
		os.Exit(1)
	}
	defer db.Close()

	llm, err := providers.NewLLMProvider(cfg)
	if err != nil {
		slog.Error("failed to configure llm provider", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	srv := api.NewServer(cfg, api.Deps{
		Articles:  storage.NewArticleRepo(db),
		Drafts:    storage.NewDraftRepo(db),
		Fetcher:   fetcher.New(cfg),
		Generator: generator.New(llm, cfg.LLMMaxTokens),
	})
	slog.Info("repurposer api configured",
		"addr", cfg.APIAddr,
		"dialect", db.Dialect,
		"llm_provider", cfg.LLMProvider,
		"arxiv_category", cfg.ArxivCategory)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
