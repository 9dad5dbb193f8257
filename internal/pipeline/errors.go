package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/spiffcs/issuecost/internal/ghclient"
)

// Kind classifies a pipeline failure for translation at the boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindClientInput
	KindConfiguration
	KindNotFound
	KindRateLimited
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindClientInput:
		return "client_input"
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// User-facing messages
const (
	MsgURLRequired  = "Repository URL is required"
	MsgInvalidURL   = "Invalid GitHub URL format. Expected: https://github.com/owner/repo"
	MsgNoToken      = "GitHub token not configured"
	MsgNotFound     = "Repository not found or you do not have access to it"
	MsgRateLimited  = "GitHub API rate limit exceeded. Please try again later."
	MsgProcessing   = "An error occurred while processing the repository"
	msgNoLLMKeyTmpl = "%s API key not configured"
)

// Error is a failed run. Message is safe to show to callers; Err carries the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns the cause text for unclassified failures, or "".
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// fetchError translates an issue fetch failure.
func fetchError(err error) *Error {
	switch {
	case errors.Is(err, ghclient.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: MsgNotFound, Err: err}
	case errors.Is(err, ghclient.ErrRateLimited):
		return &Error{Kind: KindRateLimited, Message: MsgRateLimited, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindInternal, Message: MsgProcessing, Err: err}
	default:
		return &Error{Kind: KindUpstream, Message: MsgProcessing, Err: err}
	}
}
