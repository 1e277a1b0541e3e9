package providers

import "strings"

// NewGroqProvider returns a chat completions client for Groq's
// OpenAI-compatible API.
func NewGroqProvider(keyName, model string) *OpenAIProvider {
	if strings.TrimSpace(model) == "" {
		model = "llama-3.1-8b-instant"
	}
	p := NewOpenAIProvider(keyName, model)
	p.name = "groq"
	p.apiKey, p.keyEnv = resolveKey("groq", keyName)
	p.keyURL = "https://console.groq.com/keys"
	p.baseURL = "https://api.groq.com/openai/v1"
	return p
}
