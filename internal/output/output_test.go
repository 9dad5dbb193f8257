package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spiffcs/issuecost/internal/format"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/report"
)

func init() {
	color.NoColor = true
}

var testRef = model.RepositoryRef{Owner: "acme", Name: "widgets"}

func testReport() model.Report {
	return report.Build(testRef, []model.AnalyzedIssue{
		{
			IssueNumber:  7,
			Title:        "Crash when saving\nlarge files",
			Tier:         model.TierLow,
			Cost:         200,
			LabelsJoined: "bug",
			URL:          "https://github.com/acme/widgets/issues/7",
			Method:       model.MethodHeuristic,
		},
		{
			IssueNumber:  8,
			Title:        strings.Repeat("Very long title ", 10),
			Tier:         model.TierHigh,
			Cost:         800,
			LabelsJoined: "enhancement; ui",
			URL:          "https://github.com/acme/widgets/issues/8",
			Method:       model.MethodLLM,
		},
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"markdown", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFormatter(t *testing.T) {
	noLinks := false
	var buf bytes.Buffer
	if err := (&TableFormatter{Hyperlinks: &noLinks}).Format(testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"#7",
		"Low*",
		"$200",
		"Crash when saving large files",
		"High ",
		"$800",
		"enhancement; ui",
		"Open issues:     2",
		"Estimated cost:  $1,000",
		"classified by label heuristic",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "\033]8;;") {
		t.Error("hyperlinks should be disabled")
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "#8") && format.DisplayWidth(line) > colNumber+colComplexity+colCost+colTitle+colLabels+8 {
			t.Errorf("row exceeds table width: %q", line)
		}
	}
}

func TestTableFormatterHyperlinks(t *testing.T) {
	links := true
	var buf bytes.Buffer
	if err := (&TableFormatter{Hyperlinks: &links}).Format(testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\033]8;;https://github.com/acme/widgets/issues/7\033\\") {
		t.Error("expected OSC 8 hyperlink for issue 7")
	}
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(report.Empty(testRef), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); got != "acme/widgets: No open issues found in this repository\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).Format(testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Repository != "acme/widgets" {
		t.Errorf("repository = %q", out.Repository)
	}
	if out.Summary.TotalEstimatedCost != 1000 || out.Summary.TierCounts.High != 1 {
		t.Errorf("unexpected summary %+v", out.Summary)
	}
	if len(out.Issues) != 2 || out.Issues[0].Method != model.MethodHeuristic {
		t.Errorf("unexpected issues %+v", out.Issues)
	}
	if out.Message != "" {
		t.Errorf("unexpected message %q", out.Message)
	}
}

func TestJSONFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).Format(report.Empty(testRef), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"issues": []`) {
		t.Errorf("expected empty issues array:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"message": "No open issues found in this repository"`) {
		t.Errorf("expected message:\n%s", buf.String())
	}
}

func TestCSVFormatter(t *testing.T) {
	rep := testReport()
	var buf bytes.Buffer
	if err := NewFormatter(FormatCSV).Format(rep, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != rep.CSV+"\n" {
		t.Errorf("unexpected CSV output %q", buf.String())
	}

	buf.Reset()
	empty := report.Empty(testRef)
	if err := NewFormatter(FormatCSV).Format(empty, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != empty.CSV {
		t.Errorf("empty CSV should not gain a second newline, got %q", buf.String())
	}
}

func TestFormatSummary(t *testing.T) {
	summary := model.Summary{TotalIssues: 4, TotalEstimatedCost: 2100, TierCounts: model.TierCounts{Low: 1, Medium: 2, High: 1}}

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatTable, []string{"Open issues:     4", "$2,100", "Medium     2  (50%)"}},
		{FormatJSON, []string{`"totalIssues": 4`, `"totalEstimatedCost": 2100`, `"medium": 2`}},
		{FormatCSV, []string{"total_issues,4", "total_estimated_cost,$2100", "medium,2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFormatter(tt.format).FormatSummary(model.RepositoryRef{}, summary, &buf); err != nil {
				t.Fatalf("FormatSummary() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("summary missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
