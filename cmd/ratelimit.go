package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"
	"github.com/spiffcs/issuecost/config"
	"github.com/spiffcs/issuecost/internal/secrets"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long: `Display current GitHub API rate limit status including remaining quota and reset time.
Each analysis uses one core request per 100 open issues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRateLimitStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runRateLimitStatus(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, settings, err := loadSettings()
	if err != nil {
		return err
	}

	creds, err := config.ResolveCredentials(ctx, settings.LLMProvider, cfg.Secrets, secrets.Open)
	if err != nil {
		return err
	}
	if creds.GitHubToken == "" {
		return fmt.Errorf("GitHub token not configured. Set the %s environment variable", config.EnvGitHubToken)
	}

	client, err := newGitHubClient(ctx, creds.GitHubToken, settings)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(ctx)
	if err != nil {
		return fmt.Errorf("failed to get rate limits: %w", err)
	}

	writeRateLimits(w, limits)
	return nil
}

func writeRateLimits(w io.Writer, limits *gh.RateLimits) {
	fmt.Fprintln(w, "GitHub API Rate Limits:")
	fmt.Fprintln(w)

	writeRate(w, "Core API:  ", limits.Core)
	writeRate(w, "Search API:", limits.Search)
	writeRate(w, "GraphQL:   ", limits.GraphQL)
}

func writeRate(w io.Writer, label string, rate *gh.Rate) {
	if rate == nil {
		return
	}
	resetIn := time.Until(rate.Reset.Time).Round(time.Second)
	if resetIn < 0 {
		resetIn = 0
	}
	fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", label, rate.Remaining, rate.Limit, resetIn)
}
