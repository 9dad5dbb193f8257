package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
)

var (
	// ErrNotFound is returned when the repository does not exist or is not visible to the token.
	ErrNotFound = errors.New("repository not found")

	// ErrRateLimited is returned when the GitHub API rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// UpstreamError is any other failure talking to the hosting API.
type UpstreamError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("GitHub API returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("GitHub API request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// translateError maps go-github and transport errors onto the package's error kinds.
// 404 becomes ErrNotFound, 403 and 429 become ErrRateLimited; context errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, ErrRateLimited) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: resets at %s", ErrRateLimited, rateErr.Rate.Reset.Time)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, abuseErr)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, respErr.Message)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, respErr.Message)
		default:
			return &UpstreamError{StatusCode: respErr.Response.StatusCode, Err: err}
		}
	}

	return &UpstreamError{Err: err}
}
