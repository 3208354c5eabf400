package mediawiki

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"wikiepisodes/internal/services"
)

// ErrSectionNotFound reports a request for a section index the page does not have.
var ErrSectionNotFound = errors.New("section not found")

// APIError is the error object MediaWiki returns in place of a parse result.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
	Page string `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "mediawiki api error"
	}
	msg := "mediawiki: " + strings.TrimSpace(e.Code)
	if info := strings.TrimSpace(e.Info); info != "" {
		msg += ": " + info
	}
	if e.Page != "" {
		msg += " (page " + e.Page + ")"
	}
	return msg
}

// Unwrap maps API error codes onto the shared failure markers.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case "missingtitle", "invalidtitle", "pagecannotexist":
		return services.ErrNotFound
	case "nosuchsection", "invalidsection":
		return ErrSectionNotFound
	case "ratelimited", "maxlag", "readonly":
		return services.ErrTransient
	default:
		return nil
	}
}

// Retry policy bounds.
const (
	MaxBackoff = 30 * time.Second
)

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetriable reports whether err represents a transient condition that
// warrants an automatic retry (rate limits, timeouts, connection errors).
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, services.ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func backoffFor(initial time.Duration, attempt int) time.Duration {
	if initial <= 0 {
		return 0
	}
	backoff := initial * time.Duration(1<<uint(attempt-1))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	return backoff
}
