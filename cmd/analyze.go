package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/output"
	"github.com/spiffcs/issuecost/internal/pipeline"
	"github.com/spiffcs/issuecost/internal/tui"
)

// analyzeRuntime bundles TUI-related state for one analyze run.
type analyzeRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
	cancel  context.CancelFunc
}

// startTUI starts the progress display if TUI mode is enabled. Quitting the
// display cancels the run.
func (rt *analyzeRuntime) startTUI(rates tui.RateLimitSource) func(pipeline.Progress) {
	if !rt.useTUI {
		return logProgress
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		err := tui.Run(rt.events)
		if errors.Is(err, tui.ErrCanceled) {
			rt.cancel()
		}
		rt.tuiDone <- err
	}()
	return tui.NewReporter(rt.events, rates).Report
}

// close closes the event channel and waits for the TUI to finish.
func (rt *analyzeRuntime) close() error {
	if rt.events == nil {
		return nil
	}
	close(rt.events)
	err := <-rt.tuiDone
	rt.events = nil
	if errors.Is(err, tui.ErrCanceled) {
		return nil
	}
	return err
}

// logProgress reports classification progress on a single log line.
func logProgress(p pipeline.Progress) {
	switch p.Stage {
	case pipeline.StageClassifyingIssues:
		if p.Total > 0 {
			log.Progress("Classifying issues: %d/%d (%d%%)...", p.Completed, p.Total, p.Completed*100/p.Total)
		}
	case pipeline.StageAggregating:
		log.ProgressDone()
	case pipeline.StageFailed:
		log.ProgressClear()
	}
}

// NewCmdAnalyze creates the analyze command.
func NewCmdAnalyze(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <repo-url>",
		Short: "Estimate the cost of a repository's open issues",
		Long: `Fetches every open issue of a GitHub repository, classifies each one
with the configured LLM, and prints the estimated cost.

The repository may be given as https://github.com/owner/repo,
github.com/owner/repo or git@github.com:owner/repo.git.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, csv)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Also write the CSV report to this file")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Analyze only the first N open issues (0 = all)")
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Show progress display (true, false, auto)")
	cmd.Flags().Lookup("tui").NoOptDefVal = "true"

	return cmd
}

func runAnalyze(ctx context.Context, w io.Writer, rawURL string, opts *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, settings, err := loadSettings()
	if err != nil {
		return err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = settings.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if opts.Limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", opts.Limit)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt := &analyzeRuntime{useTUI: shouldUseTUI(opts), cancel: cancel}
	if rt.useTUI {
		// Logs would interleave with the display
		log.InitializeWithFormat(opts.Verbosity, opts.LogFormat, io.Discard)
		defer log.InitializeWithFormat(opts.Verbosity, opts.LogFormat, os.Stderr)
	}

	a, err := newApp(ctx, cfg, settings)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	progress := rt.startTUI(a.rateLimits())
	rep, err := a.pipeline.Run(ctx, rawURL,
		pipeline.WithLimit(opts.Limit),
		pipeline.WithProgress(progress))
	if tuiErr := rt.close(); tuiErr != nil {
		log.Warn("progress display failed", "error", tuiErr)
	}
	if err != nil {
		return describeError(err, a.creds)
	}

	return writeReport(w, rep, format, opts.Out)
}

// writeReport renders rep to w and, when outPath is set, writes the CSV atomically.
func writeReport(w io.Writer, rep model.Report, format output.Format, outPath string) error {
	if outPath != "" {
		if err := atomic.WriteFile(outPath, strings.NewReader(rep.CSV)); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		log.Info("wrote CSV report", "path", outPath, "issues", rep.Summary.TotalIssues)
	}
	return output.NewFormatter(format).Format(rep, w)
}
