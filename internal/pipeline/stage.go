package pipeline

import "github.com/spiffcs/issuecost/internal/model"

// Stage is a step of a single analysis run.
type Stage int

const (
	StageIdle Stage = iota
	StageParsingRef
	StageFetchingIssues
	StageClassifyingIssues
	StageAggregating
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageParsingRef:
		return "parsing_ref"
	case StageFetchingIssues:
		return "fetching_issues"
	case StageClassifyingIssues:
		return "classifying_issues"
	case StageAggregating:
		return "aggregating"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions follow s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Progress is reported on every stage transition and after each classification.
type Progress struct {
	Stage      Stage
	Repository model.RepositoryRef
	Completed  int
	Total      int

	// Issue is the record just produced while classifying.
	Issue *model.AnalyzedIssue

	// Err is set when Stage is StageFailed.
	Err error
}
