package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spiffcs/issuecost/internal/constants"
)

// AnthropicCompleter handles Claude API interactions
type AnthropicCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// AnthropicOption configures an AnthropicCompleter.
type AnthropicOption func(*anthropicConfig)

type anthropicConfig struct {
	model     string
	maxTokens int64
	baseURL   string
}

// WithAnthropicModel overrides the model name.
func WithAnthropicModel(model string) AnthropicOption {
	return func(c *anthropicConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAnthropicMaxTokens overrides the response token limit.
func WithAnthropicMaxTokens(n int) AnthropicOption {
	return func(c *anthropicConfig) {
		if n > 0 {
			c.maxTokens = int64(n)
		}
	}
}

// WithAnthropicBaseURL points the client at a different API root.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(c *anthropicConfig) {
		c.baseURL = url
	}
}

// NewAnthropicCompleter creates a Claude API client. Retries are disabled;
// a failed call falls back to the heuristic instead.
func NewAnthropicCompleter(apiKey string, opts ...AnthropicOption) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key not provided. Set the ANTHROPIC_API_KEY environment variable")
	}

	cfg := anthropicConfig{
		model:     constants.DefaultAnthropicModel,
		maxTokens: constants.DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &AnthropicCompleter{
		client:    anthropic.NewClient(reqOpts...),
		model:     cfg.model,
		maxTokens: cfg.maxTokens,
	}, nil
}

// Name returns the provider name.
func (a *AnthropicCompleter) Name() string {
	return "anthropic"
}

// Complete sends the prompt as a single user message and returns the reply text.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("Claude API returned no text content")
	}
	return sb.String(), nil
}
