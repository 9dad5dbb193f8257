// Package ghclient provides GitHub API client functionality.
package ghclient

import (
	"context"

	"github.com/spiffcs/issuecost/internal/model"
)

// IssueLister defines the hosting API operations the cost pipeline needs.
type IssueLister interface {
	ListOpenIssues(ctx context.Context, ref model.RepositoryRef) ([]model.Issue, error)
}

// Ensure Client implements IssueLister interface.
var _ IssueLister = (*Client)(nil)
