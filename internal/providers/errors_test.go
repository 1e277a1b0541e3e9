package providers

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"insufficient_quota": ErrorQuota,
		"429 rate":           ErrorRate,
		"context too long":   ErrorContext,
		"timeout":            ErrorTransient,
		"bad request":        ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
}

func TestClassifyTypedErrors(t *testing.T) {
	if got := ClassifyError(missingKeyError("ANTHROPIC_API_KEY", "https://example.test")); got != ErrorCredential {
		t.Fatalf("missing key: got %s", got)
	}
	wrapped := fmt.Errorf("generate draft: %w", &StatusError{Provider: "anthropic", StatusCode: 401, Body: "invalid x-api-key"})
	if got := ClassifyError(wrapped); got != ErrorAuth {
		t.Fatalf("401: got %s", got)
	}
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("nil: got %s", got)
	}
}
