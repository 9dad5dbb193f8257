package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/format"
	"github.com/spiffcs/issuecost/internal/model"
	"golang.org/x/term"
)

const noIssuesMessage = constants.NoIssuesMessage

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Hyperlinks wraps titles in OSC 8 links. Defaults to whether stdout is a terminal.
	Hyperlinks *bool
}

// Column widths
const (
	colNumber     = 7
	colComplexity = 11
	colCost       = 9
	colTitle      = 50
	colLabels     = 24
)

func (f *TableFormatter) hyperlinks() bool {
	if f.Hyperlinks != nil {
		return *f.Hyperlinks
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// hyperlink creates a clickable terminal hyperlink using OSC 8
func hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Format outputs analyzed issues as a table followed by the summary
func (f *TableFormatter) Format(rep model.Report, w io.Writer) error {
	if rep.Empty || len(rep.Issues) == 0 {
		fmt.Fprintf(w, "%s: %s\n", rep.Repository.FullName(), noIssuesMessage)
		return nil
	}

	links := f.hyperlinks()
	anyHeuristic := false

	fmt.Fprintf(w, "%-*s  %-*s  %*s  %-*s  %s\n",
		colNumber, "Issue",
		colComplexity, "Complexity",
		colCost, "Cost",
		colTitle, "Title",
		"Labels")
	fmt.Fprintln(w, strings.Repeat("-", colNumber+colComplexity+colCost+colTitle+colLabels+8))

	for _, issue := range rep.Issues {
		number := "#" + strconv.Itoa(issue.IssueNumber)

		marker := format.MethodSuffix(issue.Method)
		if marker != "" {
			anyHeuristic = true
		}
		tierText := format.ColorTier(issue.Tier) + marker
		tierWidth := format.DisplayWidth(issue.Tier.Display() + marker)

		title, titleWidth := format.Truncate(format.SingleLine(issue.Title), colTitle)
		if links && issue.URL != "" {
			title = hyperlink(title, issue.URL)
		}

		labels, _ := format.Truncate(issue.LabelsJoined, colLabels)

		fmt.Fprintf(w, "%-*s  %s  %*s  %s  %s\n",
			colNumber, number,
			format.PadRight(tierText, tierWidth, colComplexity),
			colCost, format.Dollars(issue.Cost),
			format.PadRight(title, titleWidth, colTitle),
			labels,
		)
	}

	fmt.Fprintln(w)
	if err := f.FormatSummary(rep.Repository, rep.Summary, w); err != nil {
		return err
	}

	if anyHeuristic {
		fmt.Fprintf(w, "\n%s classified by label heuristic (LLM unavailable)\n", format.MethodMarker)
	}
	return nil
}

// FormatSummary outputs the totals and tier breakdown
func (f *TableFormatter) FormatSummary(ref model.RepositoryRef, summary model.Summary, w io.Writer) error {
	fmt.Fprintln(w, strings.Repeat("━", 60))
	if name := repoName(ref); name != "" {
		fmt.Fprintf(w, "  Repository:      %s\n", name)
	}
	fmt.Fprintf(w, "  Open issues:     %d\n", summary.TotalIssues)
	fmt.Fprintf(w, "  Estimated cost:  %s\n", color.New(color.Bold).Sprint(format.Dollars(summary.TotalEstimatedCost)))
	fmt.Fprintln(w)

	for _, tier := range model.AllTiers {
		count := summary.TierCounts.Get(tier)
		label := format.ColorTier(tier)
		fmt.Fprintf(w, "  %s %3d  (%d%%)\n",
			format.PadRight(label, format.DisplayWidth(label), 8),
			count,
			format.Percent(count, summary.TotalIssues))
	}
	return nil
}
