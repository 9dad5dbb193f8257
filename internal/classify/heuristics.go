package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/model"
)

// Heuristic classifies an issue from its labels and body length in characters.
// Bug labels are checked before feature labels, so an issue carrying both is low.
func Heuristic(issue model.Issue) model.ClassificationResult {
	if hasLabelContaining(issue.Labels, "bug", "fix") {
		return heuristicResult(model.TierLow, "Bug fix with standard complexity")
	}

	if hasLabelContaining(issue.Labels, "feature", "enhancement") {
		if utf8.RuneCountInString(issue.BodyText()) > constants.LongBodyThreshold {
			return heuristicResult(model.TierHigh, "Feature request with detailed requirements")
		}
		return heuristicResult(model.TierMedium, "Feature request with moderate scope")
	}

	return heuristicResult(model.TierMedium, "Standard complexity based on heuristics")
}

func heuristicResult(tier model.Tier, reasoning string) model.ClassificationResult {
	return model.ClassificationResult{
		Tier:      tier,
		Reasoning: reasoning,
		Method:    model.MethodHeuristic,
	}
}

// hasLabelContaining checks whether any label, lower-cased, contains one of the substrings.
func hasLabelContaining(labels []string, substrs ...string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
	}
	return false
}
