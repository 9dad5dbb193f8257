package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spiffcs/issuecost/config"
	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/server"
)

// NewCmdServe creates the serve command.
func NewCmdServe(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis endpoint over HTTP",
		Long: `Starts an HTTP server exposing:

  POST /api/analyze   {"repoUrl": "..."} -> {"csv": "...", "summary": {...}}
  GET  /healthz       liveness probe

Credentials are read once at startup. A missing credential does not stop
the server; every analysis request reports it instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from config, \":8080\")")

	return cmd
}

func runServe(ctx context.Context, opts *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, settings, err := loadSettings()
	if err != nil {
		return err
	}

	format := opts.LogFormat
	if format == "" {
		format = settings.LogFormat
	}
	if !log.ValidFormat(format) {
		return fmt.Errorf("invalid log format %q: must be text or json", format)
	}
	// Access logs are info records
	log.InitializeWithFormat(max(opts.Verbosity, log.LevelInfo), format, os.Stderr)

	addr := opts.Addr
	if addr == "" {
		addr = settings.ListenAddr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, settings)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	warnMissingCredentials(a.creds)
	log.Info("starting server",
		"provider", a.creds.ProviderName(),
		"model", settings.LLMModel,
		"classify_delay", settings.ClassifyDelay,
		"request_timeout", settings.RequestTimeout)

	srv := server.New(a.pipeline,
		server.WithRequestTimeout(settings.RequestTimeout),
		server.WithReadHeaderTimeout(settings.ReadHeaderTimeout))
	return srv.ListenAndServe(ctx, addr)
}

func warnMissingCredentials(creds config.Credentials) {
	if creds.GitHubToken == "" {
		log.Warn("GitHub token not configured; analysis requests will fail", "env", config.EnvGitHubToken)
	}
	if creds.LLMAPIKey == "" {
		log.Warn("LLM API key not configured; analysis requests will fail",
			"provider", creds.ProviderName(), "env", config.LLMKeyEnv(creds.LLMProvider))
	}
}
