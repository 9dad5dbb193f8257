package tui

import (
	"fmt"
	"time"

	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/pipeline"
)

const lowRateRemaining = constants.RateLimitLowWatermark

// RateLimitSource exposes the hosting API rate limit last observed.
type RateLimitSource interface {
	RateLimitStatus() (remaining, limit int, resetAt time.Time, limited bool)
}

// Reporter turns pipeline progress into TUI events. Its Report method is
// passed to pipeline.WithProgress and must be called from one goroutine.
type Reporter struct {
	ch        chan<- Event
	rates     RateLimitSource
	current   TaskID
	active    bool
	last      TaskID
	total     int
	completed int
	heuristic int
}

// NewReporter creates a Reporter writing to ch. rates may be nil.
func NewReporter(ch chan<- Event, rates RateLimitSource) *Reporter {
	return &Reporter{ch: ch, rates: rates, last: -1}
}

// Report translates one progress update.
func (r *Reporter) Report(p pipeline.Progress) {
	switch p.Stage {
	case pipeline.StageParsingRef:
		r.begin(TaskParse)

	case pipeline.StageFetchingIssues:
		r.finish(WithMessage(p.Repository.FullName()))
		r.begin(TaskFetch)

	case pipeline.StageClassifyingIssues:
		if p.Issue == nil {
			r.sendRateLimit()
			r.total = p.Total
			r.finish(WithCount(p.Total))
			r.begin(TaskClassify, WithMessage(fmt.Sprintf("0/%d", p.Total)))
			return
		}
		r.completed = p.Completed
		if p.Issue.Method == model.MethodHeuristic {
			r.heuristic++
		}
		SendTaskEvent(r.ch, TaskClassify, StatusRunning,
			WithProgress(float64(p.Completed)/float64(p.Total)),
			WithMessage(r.classifyMessage(p.Completed, p.Total)))

	case pipeline.StageAggregating:
		r.finish(WithMessage(r.classifyMessage(r.completed, r.total)))
		r.begin(TaskReport)

	case pipeline.StageDone:
		if r.current == TaskFetch && r.active {
			r.sendRateLimit()
			r.finish(WithMessage("no open issues"))
		} else {
			r.finish()
		}
		r.skipRemaining()
		SendEvent(r.ch, DoneEvent{})

	case pipeline.StageFailed:
		r.sendRateLimit()
		task := r.current
		if !r.active {
			task = TaskParse
			r.last = TaskParse
		}
		SendTaskEvent(r.ch, task, StatusError, WithError(p.Err))
		r.active = false
		r.skipRemaining()
		SendEvent(r.ch, DoneEvent{})
	}
}

func (r *Reporter) classifyMessage(completed, total int) string {
	if r.heuristic == 0 {
		return fmt.Sprintf("%d/%d", completed, total)
	}
	return fmt.Sprintf("%d/%d, %d by heuristic", completed, total, r.heuristic)
}

func (r *Reporter) begin(id TaskID, opts ...TaskEventOption) {
	r.current = id
	r.active = true
	if id > r.last {
		r.last = id
	}
	SendTaskEvent(r.ch, id, StatusRunning, opts...)
}

func (r *Reporter) finish(opts ...TaskEventOption) {
	if !r.active {
		return
	}
	r.active = false
	SendTaskEvent(r.ch, r.current, StatusComplete, opts...)
}

func (r *Reporter) skipRemaining() {
	for id := r.last + 1; id <= TaskReport; id++ {
		SendTaskEvent(r.ch, id, StatusSkipped)
	}
	r.last = TaskReport
}

func (r *Reporter) sendRateLimit() {
	if r.rates == nil {
		return
	}
	remaining, _, resetAt, limited := r.rates.RateLimitStatus()
	SendEvent(r.ch, RateLimitEvent{Limited: limited, Remaining: remaining, ResetAt: resetAt})
}
