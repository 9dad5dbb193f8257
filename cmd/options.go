package cmd

// Options holds the shared command-line options for the issuecost CLI.
type Options struct {
	Verbosity int
	LogFormat string // empty = config value, then text

	Format string // empty = config default_format
	Out    string // also write the CSV report to this file
	Limit  int    // analyze only the first N issues; 0 = all
	TUI    *bool  // nil = auto-detect, true = force TUI, false = disable TUI

	Addr string // listen address for serve; empty = config value
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, csv).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithOut sets the path the CSV report is written to.
func WithOut(path string) Option {
	return func(o *Options) {
		o.Out = path
	}
}

// WithLimit sets the maximum number of issues to analyze.
func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
