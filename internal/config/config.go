package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIAddr          string
	DatabaseURL      string
	LogLevel         string
	LLMProvider      string
	LLMModel         string
	LLMMaxTokens     int
	AnthropicBaseURL string
	ArxivAPIURL      string
	ArxivCategory    string
	HFPapersURL      string
	FetchMaxResults  int
	HFMaxResults     int
	SearchMaxResults int
}

func Load() Config {
	return Config{
		APIAddr:          getenv("REPURPOSER_API_ADDR", ":5000"),
		DatabaseURL:      getenv("REPURPOSER_DATABASE_URL", "data/content.db"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LLMProvider:      getenv("REPURPOSER_LLM_PROVIDER", "anthropic"),
		LLMModel:         getenv("REPURPOSER_LLM_MODEL", ""),
		LLMMaxTokens:     getenvInt("REPURPOSER_LLM_MAX_TOKENS", 4096),
		AnthropicBaseURL: getenv("REPURPOSER_ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		ArxivAPIURL:      getenv("REPURPOSER_ARXIV_API_URL", "http://export.arxiv.org/api/query"),
		ArxivCategory:    getenv("REPURPOSER_ARXIV_CATEGORY", "cs.CV"),
		HFPapersURL:      getenv("REPURPOSER_HF_PAPERS_URL", "https://huggingface.co/api/daily_papers"),
		FetchMaxResults:  getenvInt("REPURPOSER_FETCH_MAX_RESULTS", 20),
		HFMaxResults:     getenvInt("REPURPOSER_HF_MAX_RESULTS", 5),
		SearchMaxResults: getenvInt("REPURPOSER_SEARCH_MAX_RESULTS", 10),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
