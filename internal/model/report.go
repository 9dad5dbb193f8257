package model

// AnalyzedIssue is the per-issue record the CSV and issue lists derive from.
type AnalyzedIssue struct {
	IssueNumber  int    `json:"issueNumber"`
	Title        string `json:"title"`
	Tier         Tier   `json:"complexity"`
	Cost         int    `json:"estimatedCost"`
	LabelsJoined string `json:"labels"`
	URL          string `json:"url"`

	// Not part of the CSV; carried for CLI output.
	Reasoning string `json:"reasoning,omitempty"`
	Method    Method `json:"method,omitempty"`
}

// TierCounts is the number of issues in each complexity tier.
type TierCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Total returns the sum of all tier counts.
func (c TierCounts) Total() int {
	return c.Low + c.Medium + c.High
}

// Get returns the count for a tier.
func (c TierCounts) Get(t Tier) int {
	switch t {
	case TierLow:
		return c.Low
	case TierMedium:
		return c.Medium
	case TierHigh:
		return c.High
	default:
		return 0
	}
}

// Summary aggregates a set of analyzed issues.
type Summary struct {
	TotalIssues        int        `json:"totalIssues"`
	TotalEstimatedCost int        `json:"totalEstimatedCost"`
	TierCounts         TierCounts `json:"complexityBreakdown"`
}

// Report is the result of analyzing one repository.
type Report struct {
	Repository RepositoryRef   `json:"repository"`
	CSV        string          `json:"csv"`
	Summary    Summary         `json:"summary"`
	Issues     []AnalyzedIssue `json:"issues"`

	// Empty is set when the repository had no open issues.
	Empty bool `json:"empty,omitempty"`
}
