package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding credentials
const (
	EnvGitHubToken     = "GITHUB_TOKEN"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
)

// Credentials are the secrets the pipeline needs. Loaded once at startup and
// never logged: LogValue renders only whether each one is present.
type Credentials struct {
	GitHubToken string
	LLMProvider string
	LLMAPIKey   string
}

// LogValue implements slog.LogValuer.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("github_token", presence(c.GitHubToken)),
		slog.String("llm_provider", c.LLMProvider),
		slog.String("llm_api_key", presence(c.LLMAPIKey)),
	)
}

func presence(s string) string {
	if s == "" {
		return "missing"
	}
	return "configured"
}

// ProviderName returns the display name of the LLM provider.
func (c Credentials) ProviderName() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return "Gemini"
	default:
		return "Anthropic"
	}
}

// LLMKeyEnv returns the environment variable holding the provider's API key.
func LLMKeyEnv(provider string) string {
	if provider == ProviderGemini {
		return EnvGeminiAPIKey
	}
	return EnvAnthropicAPIKey
}

// LoadDotEnv loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// SecretSource fetches secret values by reference.
type SecretSource interface {
	FetchSecret(ctx context.Context, ref string) (string, error)
	Close() error
}

// SecretSourceFactory opens a SecretSource on first use.
type SecretSourceFactory func(ctx context.Context) (SecretSource, error)

// ResolveCredentials reads credentials from the environment, falling back to
// the configured secret references for any that are unset. Missing credentials
// are not an error here; the pipeline reports them per request.
func ResolveCredentials(ctx context.Context, provider string, refs *SecretRefs, open SecretSourceFactory) (Credentials, error) {
	creds := Credentials{
		GitHubToken: os.Getenv(EnvGitHubToken),
		LLMProvider: provider,
		LLMAPIKey:   os.Getenv(LLMKeyEnv(provider)),
	}

	if refs.IsEmpty() || open == nil {
		return creds, nil
	}

	needGitHub := creds.GitHubToken == "" && refs.GitHubToken != ""
	needLLM := creds.LLMAPIKey == "" && refs.LLMAPIKey != ""
	if !needGitHub && !needLLM {
		return creds, nil
	}

	source, err := open(ctx)
	if err != nil {
		return creds, fmt.Errorf("failed to open secret source: %w", err)
	}
	defer func() { _ = source.Close() }()

	if needGitHub {
		token, err := source.FetchSecret(ctx, refs.GitHubToken)
		if err != nil {
			return creds, fmt.Errorf("failed to fetch GitHub token secret: %w", err)
		}
		creds.GitHubToken = token
	}

	if needLLM {
		key, err := source.FetchSecret(ctx, refs.LLMAPIKey)
		if err != nil {
			return creds, fmt.Errorf("failed to fetch %s API key secret: %w", creds.ProviderName(), err)
		}
		creds.LLMAPIKey = key
	}

	return creds, nil
}
