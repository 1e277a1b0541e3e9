package providers

import (
	"fmt"
	"os"
	"strings"

	"repurposer/internal/config"
)

// NewLLMProvider builds the provider named by cfg.LLMProvider.
func NewLLMProvider(cfg config.Config) (LLMProvider, error) {
	ref := ParseProviderRef(cfg.LLMProvider)
	switch ref.Name {
	case "mock":
		return NewMockProvider(cfg.LLMModel), nil
	case "anthropic", "claude":
		return NewAnthropicProvider(ref.KeyAlias, cfg.LLMModel, cfg.AnthropicBaseURL), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias, cfg.LLMModel), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias, cfg.LLMModel), nil
	case "ollama":
		model := cfg.LLMModel
		if model == "" {
			model = ref.KeyAlias
		}
		return NewOllamaProvider(model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}

// resolveKey returns the API key for provider and the env var that should
// hold it. An alias selects REPURPOSER_<PROVIDER>_KEY_<ALIAS> first.
func resolveKey(provider, alias string) (string, string) {
	defaultEnv := strings.ToUpper(provider) + "_API_KEY"
	if alias != "" {
		env := "REPURPOSER_" + strings.ToUpper(provider) + "_KEY_" + sanitizeEnvToken(alias)
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, env
		}
	}
	return strings.TrimSpace(os.Getenv(defaultEnv)), defaultEnv
}

func sanitizeEnvToken(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
