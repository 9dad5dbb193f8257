// Package report aggregates analyzed issues and serializes them as CSV.
package report

import (
	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/model"
)

// Analyze combines an issue with its classification and cost.
func Analyze(issue model.Issue, result model.ClassificationResult, cost int) model.AnalyzedIssue {
	return model.AnalyzedIssue{
		IssueNumber:  issue.Number,
		Title:        issue.Title,
		Tier:         result.Tier,
		Cost:         cost,
		LabelsJoined: issue.LabelsJoined(),
		URL:          issue.HTMLURL,
		Reasoning:    result.Reasoning,
		Method:       result.Method,
	}
}

// Summarize folds analyzed issues into totals and per-tier counts.
func Summarize(issues []model.AnalyzedIssue) model.Summary {
	var s model.Summary
	for _, issue := range issues {
		s.TotalIssues++
		s.TotalEstimatedCost += issue.Cost
		switch issue.Tier {
		case model.TierLow:
			s.TierCounts.Low++
		case model.TierMedium:
			s.TierCounts.Medium++
		case model.TierHigh:
			s.TierCounts.High++
		}
	}
	return s
}

// Build assembles the report for a non-empty set of analyzed issues.
func Build(ref model.RepositoryRef, issues []model.AnalyzedIssue) model.Report {
	return model.Report{
		Repository: ref,
		CSV:        FormatCSV(issues),
		Summary:    Summarize(issues),
		Issues:     issues,
	}
}

// Empty returns the report of a repository without open issues: a header-only
// CSV ending in a newline and a zero summary.
func Empty(ref model.RepositoryRef) model.Report {
	return model.Report{
		Repository: ref,
		CSV:        constants.CSVHeader + "\n",
		Issues:     []model.AnalyzedIssue{},
		Empty:      true,
	}
}
