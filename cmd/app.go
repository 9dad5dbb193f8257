package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spiffcs/issuecost/config"
	"github.com/spiffcs/issuecost/internal/classify"
	"github.com/spiffcs/issuecost/internal/cost"
	"github.com/spiffcs/issuecost/internal/ghclient"
	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/pipeline"
	"github.com/spiffcs/issuecost/internal/secrets"
	"github.com/spiffcs/issuecost/internal/tui"
)

// app holds the clients built once per process.
type app struct {
	settings config.Settings
	creds    config.Credentials
	github   *ghclient.Client // nil when no token is configured
	pipeline *pipeline.Pipeline
	closers  []func() error
}

// loadSettings loads and validates the merged configuration.
func loadSettings() (*config.Config, config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings := cfg.Settings()
	if err := settings.Validate(); err != nil {
		return nil, config.Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, settings, nil
}

// newApp resolves credentials and builds the hosting client, the classifier
// and the pipeline. A missing credential is not an error: the pipeline
// reports it on every run instead.
func newApp(ctx context.Context, cfg *config.Config, settings config.Settings) (*app, error) {
	creds, err := config.ResolveCredentials(ctx, settings.LLMProvider, cfg.Secrets, secrets.Open)
	if err != nil {
		return nil, err
	}
	log.Debug("credentials resolved", "credentials", creds)

	a := &app{settings: settings, creds: creds}

	// Interfaces stay untyped nil when a client is not built
	var lister ghclient.IssueLister
	if creds.GitHubToken != "" {
		gh, err := newGitHubClient(ctx, creds.GitHubToken, settings)
		if err != nil {
			return nil, err
		}
		a.github = gh
		lister = gh
	}

	var classifier pipeline.IssueClassifier
	if creds.LLMAPIKey != "" {
		completer, err := a.newCompleter(ctx)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		classifier = classify.New(completer)
	}

	calc, err := cost.NewCalculator(settings.CostBands)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.pipeline = pipeline.New(creds, lister, classifier, calc,
		pipeline.WithClassifyDelay(settings.ClassifyDelay))
	return a, nil
}

func newGitHubClient(ctx context.Context, token string, settings config.Settings) (*ghclient.Client, error) {
	var opts []ghclient.ClientOption
	if settings.GitHubAPIURL != "" {
		opts = append(opts, ghclient.WithBaseURL(settings.GitHubAPIURL))
	}
	return ghclient.NewClient(ctx, token, opts...)
}

func (a *app) newCompleter(ctx context.Context) (classify.Completer, error) {
	switch a.settings.LLMProvider {
	case config.ProviderGemini:
		g, err := classify.NewGeminiCompleter(ctx, a.creds.LLMAPIKey, a.settings.LLMModel, a.settings.MaxTokens)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g.Close)
		return g, nil
	default:
		return classify.NewAnthropicCompleter(a.creds.LLMAPIKey,
			classify.WithAnthropicModel(a.settings.LLMModel),
			classify.WithAnthropicMaxTokens(a.settings.MaxTokens))
	}
}

// rateLimits returns the hosting client, or nil when there is no client.
func (a *app) rateLimits() tui.RateLimitSource {
	if a.github == nil {
		return nil
	}
	return a.github
}

// Close releases provider clients.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// describeError adds the environment variable to set for configuration failures.
func describeError(err error, creds config.Credentials) error {
	var perr *pipeline.Error
	if !errors.As(err, &perr) || perr.Kind != pipeline.KindConfiguration {
		return err
	}
	env := config.LLMKeyEnv(creds.LLMProvider)
	if perr.Message == pipeline.MsgNoToken {
		env = config.EnvGitHubToken
	}
	return fmt.Errorf("%s. Set the %s environment variable", perr.Message, env)
}
