// Package classify judges the implementation complexity of an issue, using an
// LLM when one is available and a deterministic label heuristic otherwise.
package classify

import (
	"context"
	"errors"

	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/model"
)

var errNoCompleter = errors.New("no LLM provider configured")

// Completer sends a single prompt to an LLM and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Classifier produces a ClassificationResult for every issue it is given.
type Classifier struct {
	completer Completer
}

// New creates a Classifier. A nil completer classifies with the heuristic only.
func New(completer Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify never fails: any LLM error or unusable reply yields Heuristic(issue).
func (c *Classifier) Classify(ctx context.Context, issue model.Issue) model.ClassificationResult {
	switch o := c.primary(ctx, issue).(type) {
	case Parsed:
		log.Debug("classified issue", "number", issue.Number, "tier", o.Result.Tier, "method", o.Result.Method)
		return o.Result
	case Unparseable:
		log.Warn("LLM classification unavailable, using heuristic", "number", issue.Number, "error", o.Err)
	}
	return Heuristic(issue)
}

func (c *Classifier) primary(ctx context.Context, issue model.Issue) Outcome {
	if c.completer == nil {
		return Unparseable{Err: errNoCompleter}
	}

	prompt := BuildPrompt(issue)
	log.Trace("classification prompt", "number", issue.Number, "prompt", prompt)

	text, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return Unparseable{Err: err}
	}
	log.Trace("classification reply", "number", issue.Number, "provider", c.completer.Name(), "text", text)

	return ParseResponse(text)
}
