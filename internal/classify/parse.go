package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spiffcs/issuecost/internal/model"
)

// ErrNoJSON is reported when a completion contains no JSON object span.
var ErrNoJSON = errors.New("no JSON object in response")

// Outcome is the result of interpreting an LLM completion.
// It is either Parsed or Unparseable.
type Outcome interface {
	outcome()
}

// Parsed carries a validated classification.
type Parsed struct {
	Result model.ClassificationResult
}

// Unparseable records why no classification could be taken from the LLM path.
type Unparseable struct {
	Err error
}

func (Parsed) outcome()      {}
func (Unparseable) outcome() {}

type llmResponse struct {
	Complexity string `json:"complexity"`
	Reasoning  string `json:"reasoning"`
}

// ParseResponse extracts the span from the first '{' to the last '}' and
// decodes it as a classification. Unknown tiers are Unparseable.
func ParseResponse(text string) Outcome {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Unparseable{Err: ErrNoJSON}
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return Unparseable{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	tier, err := model.ParseTier(strings.ToLower(strings.TrimSpace(resp.Complexity)))
	if err != nil {
		return Unparseable{Err: err}
	}

	return Parsed{Result: model.ClassificationResult{
		Tier:      tier,
		Reasoning: resp.Reasoning,
		Method:    model.MethodLLM,
	}}
}
