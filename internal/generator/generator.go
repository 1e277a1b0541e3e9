package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"repurposer/internal/metrics"
	"repurposer/internal/models"
	"repurposer/internal/providers"
)

// Generator turns one article into a blog draft with a single LLM call.
type Generator struct {
	llm       providers.LLMProvider
	maxTokens int
	now       func() time.Time
}

func New(llm providers.LLMProvider, maxTokens int) *Generator {
	return &Generator{
		llm:       llm,
		maxTokens: maxTokens,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (g *Generator) Generate(ctx context.Context, a models.Article) (models.Draft, error) {
	now := g.now()
	prompt, err := renderPrompt(a, now.Format("January 02, 2006"))
	if err != nil {
		return models.Draft{}, fmt.Errorf("render prompt: %w", err)
	}

	start := time.Now()
	resp, info, err := g.llm.Generate(ctx, providers.GenerateRequest{
		Operation: "blog_draft",
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: g.maxTokens,
	})
	if err == nil {
		resp.Text = stripCodeFence(resp.Text)
		if resp.Text == "" {
			err = errors.New("generator: empty completion")
		}
	}
	if err != nil {
		errType := providers.ClassifyError(err)
		metrics.RecordGenerationError(string(errType))
		slog.ErrorContext(ctx, "draft generation failed",
			"article_id", a.ID,
			"provider", info.Name,
			"model", info.Model,
			"error_type", errType,
			"error", err)
		return models.Draft{}, err
	}

	tokens := resp.TotalTokens()
	metrics.RecordGeneration(info.Model, tokens, time.Since(start).Seconds())
	slog.InfoContext(ctx, "draft generated",
		"article_id", a.ID,
		"provider", info.Name,
		"model", info.Model,
		"tokens", tokens)

	return models.Draft{
		ArticleID:   a.ID,
		Content:     resp.Text,
		SourceTitle: a.Title,
		SourceURL:   a.URL,
		GeneratedAt: now,
		Model:       info.Model,
		TokensUsed:  tokens,
	}, nil
}

// CheckConnection sends a minimal request to confirm the provider accepts
// the configured credential.
func (g *Generator) CheckConnection(ctx context.Context) (bool, string) {
	_, _, err := g.llm.Generate(ctx, providers.GenerateRequest{
		Operation: "connection_check",
		Prompt:    "Hi",
		MaxTokens: 10,
	})
	if err == nil {
		return true, "Connection successful"
	}
	if errors.Is(err, providers.ErrMissingCredential) {
		return false, "API key not configured"
	}
	var se *providers.StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		return false, "Invalid API key"
	}
	return false, err.Error()
}
