// Package pipeline runs one repository analysis: parse the reference, fetch
// open issues, classify and price each one in turn, then aggregate a report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spiffcs/issuecost/config"
	"github.com/spiffcs/issuecost/internal/classify"
	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/ghclient"
	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/report"
	"github.com/spiffcs/issuecost/internal/repourl"
)

// IssueClassifier assigns a complexity tier to an issue.
type IssueClassifier interface {
	Classify(ctx context.Context, issue model.Issue) model.ClassificationResult
}

// Estimator prices a complexity tier.
type Estimator interface {
	Estimate(tier model.Tier) int
}

// Pipeline holds the process-wide collaborators of an analysis. It is safe for
// concurrent use; every Run owns its own state.
type Pipeline struct {
	creds      config.Credentials
	issues     ghclient.IssueLister
	classifier IssueClassifier
	costs      Estimator
	delay      time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClassifyDelay sets the pause between consecutive classifications.
func WithClassifyDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		p.delay = d
	}
}

// New creates a Pipeline. The lister and classifier may be nil when the
// matching credential is missing; Run reports the missing credential instead.
func New(creds config.Credentials, issues ghclient.IssueLister, classifier IssueClassifier, costs Estimator, opts ...Option) *Pipeline {
	p := &Pipeline{
		creds:      creds,
		issues:     issues,
		classifier: classifier,
		costs:      costs,
		delay:      constants.ClassifyDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

type runConfig struct {
	progress func(Progress)
	limit    int
}

// WithProgress registers a callback for stage transitions and per-issue progress.
// It is called synchronously from the running goroutine.
func WithProgress(fn func(Progress)) RunOption {
	return func(c *runConfig) {
		c.progress = fn
	}
}

// WithLimit analyzes only the first n fetched issues. Zero means no limit.
func WithLimit(n int) RunOption {
	return func(c *runConfig) {
		c.limit = n
	}
}

// run is the state of one Run call.
type run struct {
	cfg   runConfig
	stage Stage
	ref   model.RepositoryRef
}

func (r *run) transition(stage Stage) {
	r.transitionWithTotal(stage, 0)
}

// transitionWithTotal announces a stage that works through total issues.
func (r *run) transitionWithTotal(stage Stage, total int) {
	log.Debug("pipeline stage", "from", r.stage, "to", stage, "repo", r.ref.FullName())
	r.stage = stage
	r.emit(Progress{Stage: stage, Repository: r.ref, Total: total})
}

func (r *run) emit(p Progress) {
	if r.cfg.progress != nil {
		r.cfg.progress(p)
	}
}

func (r *run) fail(err *Error) (model.Report, error) {
	r.stage = StageFailed
	log.Debug("pipeline failed", "kind", err.Kind, "error", err)
	r.emit(Progress{Stage: StageFailed, Repository: r.ref, Err: err})
	return model.Report{}, err
}

// Run analyzes the repository named by rawURL. Failures are returned as *Error.
// Cancelling ctx stops in-flight requests and the delay between classifications.
func (p *Pipeline) Run(ctx context.Context, rawURL string, opts ...RunOption) (model.Report, error) {
	r := &run{stage: StageIdle}
	for _, opt := range opts {
		opt(&r.cfg)
	}

	if verr := p.validate(rawURL); verr != nil {
		return r.fail(verr)
	}

	r.transition(StageParsingRef)
	ref, err := repourl.Parse(rawURL)
	if err != nil {
		return r.fail(&Error{Kind: KindClientInput, Message: MsgInvalidURL, Err: err})
	}
	r.ref = ref

	r.transition(StageFetchingIssues)
	log.Info("fetching issues", "owner", ref.Owner, "repo", ref.Name)
	issues, err := p.issues.ListOpenIssues(ctx, ref)
	if err != nil {
		return r.fail(fetchError(err))
	}
	log.Info("found open issues", "repo", ref.FullName(), "count", len(issues))

	if len(issues) == 0 {
		r.transition(StageDone)
		return report.Empty(ref), nil
	}

	if r.cfg.limit > 0 && len(issues) > r.cfg.limit {
		issues = issues[:r.cfg.limit]
	}

	r.transitionWithTotal(StageClassifyingIssues, len(issues))
	analyzed, cerr := p.classifyAll(ctx, r, issues)
	if cerr != nil {
		return r.fail(cerr)
	}

	r.transition(StageAggregating)
	rep := report.Build(ref, analyzed)

	r.transition(StageDone)
	log.Info("analysis complete", "repo", ref.FullName(),
		"issues", rep.Summary.TotalIssues, "total_cost", rep.Summary.TotalEstimatedCost)
	return rep, nil
}

// validate checks the request input, then the credentials.
func (p *Pipeline) validate(rawURL string) *Error {
	if strings.TrimSpace(rawURL) == "" {
		return &Error{Kind: KindClientInput, Message: MsgURLRequired}
	}
	if p.creds.GitHubToken == "" || p.issues == nil {
		return &Error{Kind: KindConfiguration, Message: MsgNoToken}
	}
	if p.creds.LLMAPIKey == "" || p.classifier == nil {
		return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(msgNoLLMKeyTmpl, p.creds.ProviderName())}
	}
	return nil
}

// classifyAll classifies issues one at a time in fetch order, pausing between calls.
func (p *Pipeline) classifyAll(ctx context.Context, r *run, issues []model.Issue) ([]model.AnalyzedIssue, *Error) {
	analyzed := make([]model.AnalyzedIssue, 0, len(issues))

	for i, issue := range issues {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Kind: KindInternal, Message: MsgProcessing, Err: err}
		}

		log.Info("analyzing issue", "index", i+1, "total", len(issues), "number", issue.Number)
		result := p.classifier.Classify(ctx, issue)
		if !result.Tier.Valid() {
			log.Warn("classifier returned no valid tier, using heuristic", "number", issue.Number, "tier", result.Tier)
			result = classify.Heuristic(issue)
		}

		a := report.Analyze(issue, result, p.costs.Estimate(result.Tier))
		analyzed = append(analyzed, a)
		r.emit(Progress{
			Stage:      StageClassifyingIssues,
			Repository: r.ref,
			Completed:  i + 1,
			Total:      len(issues),
			Issue:      &a,
		})

		if i < len(issues)-1 {
			if err := sleep(ctx, p.delay); err != nil {
				return nil, &Error{Kind: KindInternal, Message: MsgProcessing, Err: err}
			}
		}
	}

	// The last classification may have absorbed a cancellation
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindInternal, Message: MsgProcessing, Err: err}
	}

	return analyzed, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
