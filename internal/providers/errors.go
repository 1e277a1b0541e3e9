package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingCredential is returned before any network call when the
// provider's API key is not configured.
var ErrMissingCredential = errors.New("missing API credential")

type ErrorType string

const (
	ErrorAuth       ErrorType = "auth"
	ErrorCredential ErrorType = "credential"
	ErrorQuota      ErrorType = "quota"
	ErrorRate       ErrorType = "rate"
	ErrorTransient  ErrorType = "transient"
	ErrorPermanent  ErrorType = "permanent"
	ErrorContext    ErrorType = "context"
)

// StatusError is an HTTP error response from a provider API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s generate error %d: %s", e.Provider, e.StatusCode, e.Body)
}

func missingKeyError(envName, keyURL string) error {
	return fmt.Errorf("%w: %s not set. Please add your API key to the .env file.\nGet your key from: %s", ErrMissingCredential, envName, keyURL)
}

func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingCredential) {
		return ErrorCredential
	}
	var se *StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		return ErrorAuth
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "rate"), strings.Contains(e, "429"), strings.Contains(e, "overloaded"):
		return ErrorRate
	case strings.Contains(e, "context"), strings.Contains(e, "too long"):
		return ErrorContext
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}
