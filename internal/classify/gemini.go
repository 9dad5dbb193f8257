package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/spiffcs/issuecost/internal/constants"
	"google.golang.org/api/option"
)

// GeminiCompleter sends prompts to the Gemini API.
type GeminiCompleter struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiCompleter creates a Gemini client. Close releases it.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, maxTokens int, opts ...option.ClientOption) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not provided. Set the GEMINI_API_KEY environment variable")
	}
	if model == "" {
		model = constants.DefaultGeminiModel
	}
	if maxTokens <= 0 {
		maxTokens = constants.DefaultMaxTokens
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCompleter{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
	}, nil
}

// Name returns the provider name.
func (g *GeminiCompleter) Name() string {
	return "gemini"
}

// Complete generates a reply to the prompt.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetMaxOutputTokens(g.maxTokens)
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("no content generated")
	}
	return text, nil
}

// Close closes the underlying client.
func (g *GeminiCompleter) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
