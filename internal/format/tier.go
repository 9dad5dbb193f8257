package format

import (
	"github.com/fatih/color"
	"github.com/spiffcs/issuecost/internal/model"
)

// ColorTier returns the tier's display name colored by complexity.
func ColorTier(t model.Tier) string {
	switch t {
	case model.TierLow:
		return color.GreenString(t.Display())
	case model.TierMedium:
		return color.YellowString(t.Display())
	case model.TierHigh:
		return color.RedString(t.Display())
	default:
		return t.Display()
	}
}

// MethodMarker is appended to heuristic classifications in tables.
const MethodMarker = "*"

// MethodSuffix returns MethodMarker for heuristic results and "" otherwise.
func MethodSuffix(m model.Method) string {
	if m == model.MethodHeuristic {
		return MethodMarker
	}
	return ""
}
