package ghclient

import (
	"context"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/model"
)

// ListOpenIssues fetches every open issue in the repository, in API order.
// Pages are requested one at a time starting at page 1 until a short or
// empty page is returned. Pull requests are dropped from each page.
// Failures are not retried.
func (c *Client) ListOpenIssues(ctx context.Context, ref model.RepositoryRef) ([]model.Issue, error) {
	issues := make([]model.Issue, 0)

	for page := 1; ; page++ {
		opts := &gh.IssueListByRepoOptions{
			State: "open",
			ListOptions: gh.ListOptions{
				Page:    page,
				PerPage: constants.IssuePageSize,
			},
		}

		log.Debug("GitHub API: listing issues", "repo", ref.FullName(), "page", page)
		batch, _, err := c.client.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return nil, translateError(err)
		}

		if len(batch) == 0 {
			break
		}

		for _, issue := range batch {
			// The issues endpoint also returns pull requests
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, toIssue(issue))
		}

		if len(batch) < constants.IssuePageSize {
			break
		}
	}

	return issues, nil
}

// toIssue converts a go-github issue into a model.Issue.
func toIssue(issue *gh.Issue) model.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	return model.Issue{
		Number:       issue.GetNumber(),
		Title:        issue.GetTitle(),
		Body:         issue.Body,
		Labels:       labels,
		CommentCount: issue.GetComments(),
		HTMLURL:      issue.GetHTMLURL(),
	}
}
