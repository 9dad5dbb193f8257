package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spiffcs/issuecost/internal/model"
)

func TestFormatCSV(t *testing.T) {
	issues := []model.AnalyzedIssue{
		{
			IssueNumber:  42,
			Title:        `Fix "login" bug, again`,
			Tier:         model.TierLow,
			Cost:         200,
			LabelsJoined: "bug; auth",
			URL:          "https://github.com/acme/widgets/issues/42",
		},
		{
			IssueNumber: 43,
			Title:       "Plain",
			Tier:        model.TierHigh,
			Cost:        800,
			URL:         "https://github.com/acme/widgets/issues/43",
		},
	}

	want := "issue_number,title,complexity,estimated_cost,labels,url\n" +
		`42,"Fix ""login"" bug, again",low,$200,"bug; auth",https://github.com/acme/widgets/issues/42` + "\n" +
		`43,"Plain",high,$800,"",https://github.com/acme/widgets/issues/43`

	if got := FormatCSV(issues); got != want {
		t.Errorf("FormatCSV() mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatCSVHeaderOnly(t *testing.T) {
	if got := FormatCSV(nil); got != "issue_number,title,complexity,estimated_cost,labels,url" {
		t.Errorf("FormatCSV(nil) = %q", got)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	issues := []model.AnalyzedIssue{
		{IssueNumber: 1, Title: `He said "hi"`, Tier: model.TierLow, Cost: 200, LabelsJoined: `bug; "quoted"`, URL: "https://x/1"},
		{IssueNumber: 2, Title: "a, b, and c", Tier: model.TierMedium, Cost: 450, LabelsJoined: "enhancement", URL: "https://x/2"},
		{IssueNumber: 3, Title: `""`, Tier: model.TierHigh, Cost: 800, LabelsJoined: "", URL: "https://x/3"},
		{IssueNumber: 4, Title: "", Tier: model.TierMedium, Cost: 450, LabelsJoined: "a;b, c", URL: "https://x/4"},
	}

	got, err := ParseCSV(strings.NewReader(FormatCSV(issues)))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	if diff := cmp.Diff(issues, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVRoundTripCarriageReturns(t *testing.T) {
	issues := []model.AnalyzedIssue{
		{IssueNumber: 1, Title: "a\r\nb", Tier: model.TierLow, Cost: 200, LabelsJoined: "bug\r", URL: "https://x/1"},
		{IssueNumber: 2, Title: "trailing\r", Tier: model.TierMedium, Cost: 450, LabelsJoined: "", URL: "https://x/2"},
	}

	got, err := ParseCSV(strings.NewReader(FormatCSV(issues)))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	if diff := cmp.Diff(issues, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSVCRLFRows(t *testing.T) {
	input := "issue_number,title,complexity,estimated_cost,labels,url\r\n" +
		`7,"x",high,$800,"feature",https://x/7` + "\r\n"

	got, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	want := []model.AnalyzedIssue{
		{IssueNumber: 7, Title: "x", Tier: model.TierHigh, Cost: 800, LabelsJoined: "feature", URL: "https://x/7"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSVEmptyReport(t *testing.T) {
	got, err := ParseCSV(strings.NewReader(Empty(model.RepositoryRef{}).CSV))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no issues, got %d", len(got))
	}
}

func TestParseCSVErrors(t *testing.T) {
	header := "issue_number,title,complexity,estimated_cost,labels,url\n"

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "number,title\n1,x\n"},
		{"bad number", header + `x,"t",low,$200,"",u`},
		{"bad tier", header + `1,"t",huge,$200,"",u`},
		{"missing dollar", header + `1,"t",low,200,"",u`},
		{"bad cost", header + `1,"t",low,$abc,"",u`},
		{"too few fields", header + `1,"t",low`},
		{"unterminated quote", header + `1,"t,low,$200,"",u`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedCSV) {
				t.Errorf("expected ErrMalformedCSV, got %v", err)
			}
		})
	}
}
