package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ErrMissingCredential marks calls to providers built without a credential.
var ErrMissingCredential = errors.New("credential is not configured")

var (
	quotaMarkers = []string{"quota", "resource_exhausted", "billing"}
	rateMarkers  = []string{"rate limit", "rate_limit", "ratelimit", "rate-limit", "too many requests"}
)

// StatusError is a non-success HTTP response from a backend.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
	}
	if e.Body == "" {
		return fmt.Sprintf("bad status: %s", status)
	}
	return fmt.Sprintf("bad status: %s: %s", status, e.Body)
}

// Classify maps a backend error to a failure kind. Quota and rate-limit markers
// in the error text win over the transport classification.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingCredential):
		return FailureAuthMissing
	case errors.Is(err, ErrMalformed):
		return FailureMalformedResponse
	}

	text := strings.ToLower(err.Error())
	switch {
	case containsAny(text, quotaMarkers):
		return FailureQuota
	case containsAny(text, rateMarkers):
		return FailureRateLimited
	}

	var status *StatusError
	if errors.As(err, &status) {
		if status.Code == http.StatusTooManyRequests {
			return FailureRateLimited
		}
		return FailureNetwork
	}

	var (
		netErr net.Error
		urlErr *url.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return FailureNetwork
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		return FailureNetwork
	}

	return FailureUnknown
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
