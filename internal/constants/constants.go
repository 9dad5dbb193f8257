// Package constants provides a centralized location for the configuration
// values and magic numbers used throughout the issuecost application.
package constants

import "time"

// Hosting API constants
const (
	// IssuePageSize is the number of issues requested per page. A page
	// shorter than this ends pagination.
	IssuePageSize = 100

	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Classification constants
const (
	// ClassifyDelay is the pause between consecutive LLM classifications.
	ClassifyDelay = 500 * time.Millisecond

	// LongBodyThreshold is the body length above which a feature request is
	// considered high complexity by the heuristic classifier.
	LongBodyThreshold = 500

	// DefaultAnthropicModel is the model used when none is configured.
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"

	// DefaultGeminiModel is the Gemini model used when none is configured.
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultMaxTokens bounds the LLM response size.
	DefaultMaxTokens = 1024
)

// Report constants
const (
	// CSVHeader is the first row of every CSV report.
	CSVHeader = "issue_number,title,complexity,estimated_cost,labels,url"

	// NoIssuesMessage is returned when a repository has no open issues.
	NoIssuesMessage = "No open issues found in this repository"
)

// Server constants
const (
	// DefaultListenAddr is the address the HTTP server binds to.
	DefaultListenAddr = ":8080"

	// DefaultRequestTimeout bounds a single analysis request. Sequential
	// classification makes this minutes, not seconds.
	DefaultRequestTimeout = 5 * time.Minute

	// DefaultReadHeaderTimeout bounds reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// MaxRequestBodyBytes caps the size of an analyze request body.
	MaxRequestBodyBytes = 1 << 20

	// ShutdownTimeout is how long in-flight requests get on shutdown.
	ShutdownTimeout = 30 * time.Second
)

// TUI constants
const (
	// TruncationSuffixWidth is the width of the "..." suffix when truncating strings.
	TruncationSuffixWidth = 3
)
