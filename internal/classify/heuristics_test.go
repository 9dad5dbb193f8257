package classify

import (
	"strings"
	"testing"

	"github.com/spiffcs/issuecost/internal/model"
)

func strPtr(s string) *string { return &s }

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name          string
		labels        []string
		body          *string
		wantTier      model.Tier
		wantReasoning string
	}{
		{
			name:          "bug label is low",
			labels:        []string{"bug"},
			wantTier:      model.TierLow,
			wantReasoning: "Bug fix with standard complexity",
		},
		{
			name:     "label containing fix is low",
			labels:   []string{"needs-fix"},
			wantTier: model.TierLow,
		},
		{
			name:     "label matching is case insensitive",
			labels:   []string{"Type: BUG"},
			wantTier: model.TierLow,
		},
		{
			name:          "enhancement with long body is high",
			labels:        []string{"enhancement"},
			body:          strPtr(strings.Repeat("a", 600)),
			wantTier:      model.TierHigh,
			wantReasoning: "Feature request with detailed requirements",
		},
		{
			name:     "enhancement with exactly threshold body is medium",
			labels:   []string{"enhancement"},
			body:     strPtr(strings.Repeat("a", 500)),
			wantTier: model.TierMedium,
		},
		{
			name:     "enhancement body length counts characters not bytes",
			labels:   []string{"enhancement"},
			body:     strPtr(strings.Repeat("日", 200)),
			wantTier: model.TierMedium,
		},
		{
			name:     "enhancement with long multibyte body is high",
			labels:   []string{"enhancement"},
			body:     strPtr(strings.Repeat("é", 501)),
			wantTier: model.TierHigh,
		},
		{
			name:          "enhancement with empty body is medium",
			labels:        []string{"enhancement"},
			body:          strPtr(""),
			wantTier:      model.TierMedium,
			wantReasoning: "Feature request with moderate scope",
		},
		{
			name:     "feature with missing body is medium",
			labels:   []string{"feature-request"},
			wantTier: model.TierMedium,
		},
		{
			name:          "no labels is medium",
			wantTier:      model.TierMedium,
			wantReasoning: "Standard complexity based on heuristics",
		},
		{
			name:     "unrecognized labels are medium",
			labels:   []string{"question", "documentation"},
			body:     strPtr(strings.Repeat("a", 900)),
			wantTier: model.TierMedium,
		},
		{
			name:     "bug wins over enhancement",
			labels:   []string{"enhancement", "bug"},
			body:     strPtr(strings.Repeat("a", 900)),
			wantTier: model.TierLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heuristic(model.Issue{Number: 1, Labels: tt.labels, Body: tt.body})
			if got.Tier != tt.wantTier {
				t.Errorf("Heuristic() tier = %q, want %q", got.Tier, tt.wantTier)
			}
			if tt.wantReasoning != "" && got.Reasoning != tt.wantReasoning {
				t.Errorf("Heuristic() reasoning = %q, want %q", got.Reasoning, tt.wantReasoning)
			}
			if got.Method != model.MethodHeuristic {
				t.Errorf("Heuristic() method = %q, want %q", got.Method, model.MethodHeuristic)
			}
		})
	}
}
