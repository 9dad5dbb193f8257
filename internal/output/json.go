package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/issuecost/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// JSONOutput is the document written for a full report
type JSONOutput struct {
	Repository string                `json:"repository"`
	Summary    model.Summary         `json:"summary"`
	Issues     []model.AnalyzedIssue `json:"issues"`
	Message    string                `json:"message,omitempty"`
}

func (f *JSONFormatter) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder
}

// Format outputs the report with its per-issue records
func (f *JSONFormatter) Format(rep model.Report, w io.Writer) error {
	out := JSONOutput{
		Repository: rep.Repository.FullName(),
		Summary:    rep.Summary,
		Issues:     rep.Issues,
	}
	if out.Issues == nil {
		out.Issues = []model.AnalyzedIssue{}
	}
	if rep.Empty {
		out.Message = noIssuesMessage
	}
	return f.encoder(w).Encode(out)
}

// FormatSummary outputs a summary as JSON
func (f *JSONFormatter) FormatSummary(ref model.RepositoryRef, summary model.Summary, w io.Writer) error {
	return f.encoder(w).Encode(struct {
		Repository string        `json:"repository,omitempty"`
		Summary    model.Summary `json:"summary"`
	}{
		Repository: repoName(ref),
		Summary:    summary,
	})
}

func repoName(ref model.RepositoryRef) string {
	if ref.Owner == "" && ref.Name == "" {
		return ""
	}
	return ref.FullName()
}
