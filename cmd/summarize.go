package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/output"
	"github.com/spiffcs/issuecost/internal/report"
	"github.com/spiffcs/issuecost/internal/repourl"
)

// NewCmdSummarize creates the summarize command.
func NewCmdSummarize(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <report.csv>",
		Short: "Summarize a previously written CSV report",
		Long: `Reads a CSV report written by 'analyze --out' or returned by the
analysis endpoint and prints its totals and complexity breakdown.
Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, csv)")

	return cmd
}

func runSummarize(stdin io.Reader, w io.Writer, path string, opts *Options) error {
	formatName := opts.Format
	if formatName == "" {
		_, settings, err := loadSettings()
		if err != nil {
			return err
		}
		formatName = settings.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open report: %w", err)
		}
		defer f.Close()
		r = f
	}

	issues, err := report.ParseCSV(r)
	if err != nil {
		return err
	}

	return output.NewFormatter(format).FormatSummary(reportRepository(issues), report.Summarize(issues), w)
}

// reportRepository recovers the repository from the first issue URL.
func reportRepository(issues []model.AnalyzedIssue) model.RepositoryRef {
	if len(issues) == 0 {
		return model.RepositoryRef{}
	}
	ref, err := repourl.Parse(issues[0].URL)
	if err != nil {
		return model.RepositoryRef{}
	}
	return ref
}
