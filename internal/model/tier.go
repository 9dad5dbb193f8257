package model

import "fmt"

// Tier is the coarse complexity classification of an issue.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// AllTiers lists every valid tier in display order.
var AllTiers = []Tier{TierLow, TierMedium, TierHigh}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	default:
		return false
	}
}

// Display returns a human-readable tier name.
func (t Tier) Display() string {
	switch t {
	case TierLow:
		return "Low"
	case TierMedium:
		return "Medium"
	case TierHigh:
		return "High"
	default:
		return string(t)
	}
}

// ParseTier converts a string into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid complexity %q: must be one of low, medium, high", s)
	}
	return t, nil
}

// Method records which classification path produced a result.
type Method string

const (
	MethodLLM       Method = "llm"
	MethodHeuristic Method = "heuristic"
)

// ClassificationResult is the complexity judgment for a single issue.
type ClassificationResult struct {
	Tier      Tier   `json:"complexity"`
	Reasoning string `json:"reasoning"`
	Method    Method `json:"method"`
}
