package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/issuecost/internal/model"
)

// CSVFormatter writes the report CSV unchanged
type CSVFormatter struct{}

// Format writes the CSV text, terminated by a newline for terminals and pipes
func (f *CSVFormatter) Format(rep model.Report, w io.Writer) error {
	text := rep.CSV
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// FormatSummary writes the summary as a two-column CSV
func (f *CSVFormatter) FormatSummary(_ model.RepositoryRef, summary model.Summary, w io.Writer) error {
	rows := [][2]string{
		{"metric", "value"},
		{"total_issues", fmt.Sprint(summary.TotalIssues)},
		{"total_estimated_cost", fmt.Sprintf("$%d", summary.TotalEstimatedCost)},
	}
	for _, tier := range model.AllTiers {
		rows = append(rows, [2]string{string(tier), fmt.Sprint(summary.TierCounts.Get(tier))})
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s,%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
