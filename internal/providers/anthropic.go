package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-sonnet-4-20250514"
	anthropicKeyURL       = "https://console.anthropic.com/settings/keys"
)

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	keyName string
	keyEnv  string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewAnthropicProvider(keyName, model, baseURL string) *AnthropicProvider {
	if strings.TrimSpace(model) == "" {
		model = anthropicDefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.anthropic.com"
	}
	apiKey, keyEnv := resolveKey("anthropic", keyName)
	return &AnthropicProvider{
		keyName: keyName,
		keyEnv:  keyEnv,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (a *AnthropicProvider) info() ProviderInfo {
	return ProviderInfo{Name: "anthropic", Model: a.model, Key: a.keyName}
}

func (a *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	if a.apiKey == "" {
		return GenerateResponse{}, a.info(), missingKeyError(a.keyEnv, anthropicKeyURL)
	}
	body := map[string]any{
		"model":      a.model,
		"max_tokens": maxTokens(req),
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.System != "" {
		body["system"] = req.System
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return GenerateResponse{}, a.info(), fmt.Errorf("encode anthropic request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, a.info(), fmt.Errorf("build anthropic request: %w", err)
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, a.info(), fmt.Errorf("anthropic generate request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, a.info(), &StatusError{Provider: "anthropic", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return GenerateResponse{}, a.info(), fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return GenerateResponse{}, a.info(), fmt.Errorf("anthropic returned empty content")
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return GenerateResponse{
		Text:         text.String(),
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}, a.info(), nil
}
