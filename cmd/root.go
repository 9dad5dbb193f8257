package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spiffcs/issuecost/config"
	"github.com/spiffcs/issuecost/internal/log"
)

// dotEnvPath is loaded before any command runs.
const dotEnvPath = ".env"

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "issuecost",
		Short: "Estimate what it would cost to resolve a repository's open issues",
		Long: `A tool that fetches the open issues of a GitHub repository, classifies
each one as low, medium or high complexity with an LLM (falling back to
label heuristics), and prices it. Run it once from the command line with
'analyze' or as an HTTP service with 'serve'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(NewCmdAnalyze(opts))
	rootCmd.AddCommand(NewCmdServe(opts))
	rootCmd.AddCommand(NewCmdSummarize(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// setupLogging loads .env and initializes the logger on stderr.
func setupLogging(opts *Options) error {
	if opts.LogFormat != "" && !log.ValidFormat(opts.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be text or json", opts.LogFormat)
	}
	format := opts.LogFormat
	if format == "" {
		format = log.FormatText
	}
	log.InitializeWithFormat(opts.Verbosity, format, os.Stderr)

	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		log.Warn("could not load .env file", "error", err)
	}
	return nil
}
