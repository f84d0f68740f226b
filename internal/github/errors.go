package github

import (
	"errors"
	"fmt"

	"github.com/google/go-github/v57/github"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

// UpstreamError describes a failed GitHub API call
type UpstreamError struct {
	Op          string
	Target      string
	StatusCode  int
	RateLimited bool
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GitHub API error (status %d) during %s %s: %v", e.StatusCode, e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("GitHub API error during %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// newUpstreamError classifies a go-github error and wraps it as an
// application upstream error.
func newUpstreamError(op, target string, err error) error {
	upstream := &UpstreamError{Op: op, Target: target, Err: err}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr):
		upstream.RateLimited = true
		if rateErr.Response != nil {
			upstream.StatusCode = rateErr.Response.StatusCode
		}
	case errors.As(err, &abuseErr):
		upstream.RateLimited = true
		if abuseErr.Response != nil {
			upstream.StatusCode = abuseErr.Response.StatusCode
		}
	case errors.As(err, &respErr):
		if respErr.Response != nil {
			upstream.StatusCode = respErr.Response.StatusCode
		}
	}

	message := fmt.Sprintf("%s %s", op, target)
	if upstream.RateLimited {
		message += " (rate limited)"
	}
	return apperrors.NewUpstreamError(message, upstream)
}

// StatusCode extracts the HTTP status of a wrapped GitHub failure, or 0.
func StatusCode(err error) int {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode
	}
	return 0
}
