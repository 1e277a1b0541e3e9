package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, wantKey string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+wantKey, r.Header.Get("Authorization"))
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Messages, 2)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`))
	}))
}

func TestOpenAIGenerate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	srv := chatServer(t, "sk-openai")
	defer srv.Close()

	p := NewOpenAIProvider("", "")
	p.baseURL = srv.URL
	resp, info, err := p.Generate(context.Background(), GenerateRequest{System: "sys", Prompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, 15, resp.TotalTokens())
	assert.Equal(t, "openai", info.Name)
	assert.Equal(t, "gpt-4o-mini", info.Model)
}

func TestGroqUsesOwnKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GROQ_API_KEY", "gsk-groq")
	srv := chatServer(t, "gsk-groq")
	defer srv.Close()

	p := NewGroqProvider("", "")
	p.baseURL = srv.URL
	_, info, err := p.Generate(context.Background(), GenerateRequest{System: "sys", Prompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "groq", info.Name)
	assert.Equal(t, "llama-3.1-8b-instant", info.Model)
}

func TestGroqMissingKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	p := NewGroqProvider("", "")
	_, _, err := p.Generate(context.Background(), GenerateRequest{Prompt: "user"})
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}
