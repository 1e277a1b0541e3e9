// Package metrics exposes Prometheus counters for fetch and generation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ArticlesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repurposer",
			Name:      "articles_fetched_total",
			Help:      "Articles returned by each upstream source",
		},
		[]string{"source"},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repurposer",
			Name:      "fetch_errors_total",
			Help:      "Upstream source failures absorbed during fetch",
		},
		[]string{"source"},
	)

	DraftsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repurposer",
			Name:      "drafts_generated_total",
			Help:      "Draft generation attempts by outcome",
		},
		[]string{"status"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repurposer",
			Name:      "llm_tokens_total",
			Help:      "Input plus output tokens consumed per model",
		},
		[]string{"model"},
	)

	LLMErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repurposer",
			Name:      "llm_errors_total",
			Help:      "Failed generation calls by error type",
		},
		[]string{"error_type"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "repurposer",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a single generation round trip",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120},
		},
	)
)

func RecordFetch(source string, n int) {
	ArticlesFetched.WithLabelValues(source).Add(float64(n))
}

func RecordFetchError(source string) {
	FetchErrors.WithLabelValues(source).Inc()
}

func RecordGeneration(model string, tokens int, seconds float64) {
	DraftsGenerated.WithLabelValues("success").Inc()
	LLMTokens.WithLabelValues(model).Add(float64(tokens))
	GenerationDuration.Observe(seconds)
}

func RecordGenerationError(errorType string) {
	DraftsGenerated.WithLabelValues("error").Inc()
	LLMErrors.WithLabelValues(errorType).Inc()
}
