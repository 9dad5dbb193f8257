package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/model"
)

const csvFields = 6

// ErrMalformedCSV is returned when a report cannot be read back.
var ErrMalformedCSV = errors.New("malformed CSV report")

// FormatCSV renders the header and one row per issue, joined by newlines with
// no trailing newline. Title and labels are always quoted.
func FormatCSV(issues []model.AnalyzedIssue) string {
	rows := make([]string, 0, len(issues)+1)
	rows = append(rows, constants.CSVHeader)

	for _, issue := range issues {
		rows = append(rows, strings.Join([]string{
			strconv.Itoa(issue.IssueNumber),
			quote(issue.Title),
			string(issue.Tier),
			"$" + strconv.Itoa(issue.Cost),
			quote(issue.LabelsJoined),
			issue.URL,
		}, ","))
	}

	return strings.Join(rows, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// crPlaceholder stands in for carriage returns while encoding/csv reads the
// report, since it folds \r\n inside quoted fields into \n.
const crPlaceholder = "\x00"

// ParseCSV reads a report produced by FormatCSV back into analyzed issues.
// Carriage returns inside titles and labels are preserved; rows may end in
// \n or \r\n.
func ParseCSV(r io.Reader) ([]model.AnalyzedIssue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV report: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r", crPlaceholder)

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = csvFields

	header, err := readRecord(reader)
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if strings.Join(header, ",") != constants.CSVHeader {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedCSV, strings.Join(header, ","))
	}

	issues := make([]model.AnalyzedIssue, 0)
	for {
		record, err := readRecord(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		issue, err := parseRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		issues = append(issues, issue)
	}

	return issues, nil
}

// readRecord reads one row and restores its carriage returns. A CR left at
// the end of the last field is a CRLF row ending.
func readRecord(reader *csv.Reader) ([]string, error) {
	record, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, field := range record {
		if i == len(record)-1 {
			field = strings.TrimSuffix(field, crPlaceholder)
		}
		record[i] = strings.ReplaceAll(field, crPlaceholder, "\r")
	}
	return record, nil
}

func parseRecord(record []string) (model.AnalyzedIssue, error) {
	number, err := strconv.Atoi(record[0])
	if err != nil {
		return model.AnalyzedIssue{}, fmt.Errorf("invalid issue number %q", record[0])
	}

	tier, err := model.ParseTier(record[2])
	if err != nil {
		return model.AnalyzedIssue{}, err
	}

	costText, ok := strings.CutPrefix(record[3], "$")
	if !ok {
		return model.AnalyzedIssue{}, fmt.Errorf("estimated cost %q missing $ prefix", record[3])
	}
	cost, err := strconv.Atoi(costText)
	if err != nil {
		return model.AnalyzedIssue{}, fmt.Errorf("invalid estimated cost %q", record[3])
	}

	return model.AnalyzedIssue{
		IssueNumber:  number,
		Title:        record[1],
		Tier:         tier,
		Cost:         cost,
		LabelsJoined: record[4],
		URL:          record[5],
	}, nil
}
