package providers

import (
	"context"
	"strings"
)

// MockProvider returns deterministic output for local runs and tests.
type MockProvider struct {
	model string
}

func NewMockProvider(model string) *MockProvider {
	if strings.TrimSpace(model) == "" {
		model = "mock-llm-v1"
	}
	return &MockProvider{model: model}
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	title := "Mock Draft"
	for _, line := range strings.Split(req.Prompt, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "**Title:**") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "**Title:**"))
			break
		}
	}
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n## Introduction\nDeterministic mock draft; configure a real provider for actual writing.\n")
	return GenerateResponse{
		Text:         b.String(),
		InputTokens:  len(strings.Fields(req.System)) + len(strings.Fields(req.Prompt)),
		OutputTokens: len(strings.Fields(b.String())),
	}, ProviderInfo{Name: "mock", Model: m.model, Key: "mock"}, nil
}
