package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/pipeline"
)

func TestTaskID(t *testing.T) {
	ids := []TaskID{TaskParse, TaskFetch, TaskClassify, TaskReport}
	seen := make(map[TaskID]bool)

	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate task ID: %d", id)
		}
		seen[id] = true
	}
}

func TestNewTask(t *testing.T) {
	task := NewTask(TaskFetch, "Fetching open issues")

	if task.ID != TaskFetch {
		t.Errorf("expected ID %d, got %d", TaskFetch, task.ID)
	}
	if task.Status != StatusPending {
		t.Errorf("expected status %d, got %d", StatusPending, task.Status)
	}
}

func TestSendEvent(t *testing.T) {
	ch := make(chan Event, 1)

	SendEvent(ch, TaskEvent{Task: TaskParse, Status: StatusComplete})

	select {
	case received := <-ch:
		te, ok := received.(TaskEvent)
		if !ok {
			t.Fatal("expected TaskEvent type")
		}
		if te.Task != TaskParse {
			t.Errorf("expected task %d, got %d", TaskParse, te.Task)
		}
	default:
		t.Error("expected event in channel")
	}
}

func TestSendEventNilChannel(t *testing.T) {
	SendEvent(nil, TaskEvent{})
}

func TestSendEventFullChannel(t *testing.T) {
	ch := make(chan Event, 1)
	SendEvent(ch, DoneEvent{})
	SendEvent(ch, DoneEvent{})
	if len(ch) != 1 {
		t.Errorf("expected dropped event, channel has %d", len(ch))
	}
}

func TestSendTaskEvent(t *testing.T) {
	ch := make(chan Event, 1)
	testErr := errors.New("boom")

	SendTaskEvent(ch, TaskClassify, StatusRunning,
		WithMessage("3/4"),
		WithCount(4),
		WithProgress(0.75),
		WithError(testErr),
	)

	te := (<-ch).(TaskEvent)
	if te.Task != TaskClassify || te.Message != "3/4" || te.Count != 4 || te.Progress != 0.75 {
		t.Errorf("unexpected event %+v", te)
	}
	if te.Error != testErr {
		t.Errorf("expected error %v, got %v", testErr, te.Error)
	}
}

func TestStatusIcon(t *testing.T) {
	statuses := []TaskStatus{StatusPending, StatusRunning, StatusComplete, StatusError, StatusSkipped}

	for _, status := range statuses {
		if StatusIcon(status, ">") == "" {
			t.Errorf("StatusIcon returned empty string for status %d", status)
		}
	}
}

type fakeRates struct {
	remaining int
	limited   bool
}

func (f fakeRates) RateLimitStatus() (int, int, time.Time, bool) {
	return f.remaining, 5000, time.Now().Add(time.Minute), f.limited
}

func drain(ch chan Event) []Event {
	var events []Event
	for {
		select {
		case e := <-ch:
			events = append(events, e)
		default:
			return events
		}
	}
}

func taskEvents(events []Event) []TaskEvent {
	var out []TaskEvent
	for _, e := range events {
		if te, ok := e.(TaskEvent); ok {
			out = append(out, te)
		}
	}
	return out
}

func TestReporterFullRun(t *testing.T) {
	ch := make(chan Event, 64)
	r := NewReporter(ch, fakeRates{remaining: 4000})
	ref := model.RepositoryRef{Owner: "acme", Name: "widgets"}

	r.Report(pipeline.Progress{Stage: pipeline.StageParsingRef})
	r.Report(pipeline.Progress{Stage: pipeline.StageFetchingIssues, Repository: ref})
	r.Report(pipeline.Progress{Stage: pipeline.StageClassifyingIssues, Repository: ref, Total: 2})
	r.Report(pipeline.Progress{Stage: pipeline.StageClassifyingIssues, Repository: ref, Completed: 1, Total: 2,
		Issue: &model.AnalyzedIssue{Method: model.MethodLLM}})
	r.Report(pipeline.Progress{Stage: pipeline.StageClassifyingIssues, Repository: ref, Completed: 2, Total: 2,
		Issue: &model.AnalyzedIssue{Method: model.MethodHeuristic}})
	r.Report(pipeline.Progress{Stage: pipeline.StageAggregating, Repository: ref})
	r.Report(pipeline.Progress{Stage: pipeline.StageDone, Repository: ref})

	events := drain(ch)
	if _, ok := events[len(events)-1].(DoneEvent); !ok {
		t.Fatalf("expected DoneEvent last, got %T", events[len(events)-1])
	}

	final := map[TaskID]TaskEvent{}
	for _, te := range taskEvents(events) {
		final[te.Task] = te
	}
	for _, id := range []TaskID{TaskParse, TaskFetch, TaskClassify, TaskReport} {
		if final[id].Status != StatusComplete {
			t.Errorf("task %d: expected complete, got %d", id, final[id].Status)
		}
	}
	if final[TaskClassify].Message != "2/2, 1 by heuristic" {
		t.Errorf("unexpected classify message %q", final[TaskClassify].Message)
	}

	sawParse := false
	for _, te := range taskEvents(events) {
		if te.Task == TaskParse && te.Status == StatusComplete {
			sawParse = te.Message == "acme/widgets"
		}
	}
	if !sawParse {
		t.Error("expected parse completion to carry the repository name")
	}
}

func TestReporterEmptyRepository(t *testing.T) {
	ch := make(chan Event, 64)
	r := NewReporter(ch, nil)

	r.Report(pipeline.Progress{Stage: pipeline.StageParsingRef})
	r.Report(pipeline.Progress{Stage: pipeline.StageFetchingIssues})
	r.Report(pipeline.Progress{Stage: pipeline.StageDone})

	final := map[TaskID]TaskStatus{}
	for _, te := range taskEvents(drain(ch)) {
		final[te.Task] = te.Status
	}
	if final[TaskFetch] != StatusComplete {
		t.Errorf("fetch: expected complete, got %d", final[TaskFetch])
	}
	if final[TaskClassify] != StatusSkipped || final[TaskReport] != StatusSkipped {
		t.Errorf("expected classify and report skipped, got %v", final)
	}
}

func TestReporterFailure(t *testing.T) {
	ch := make(chan Event, 64)
	r := NewReporter(ch, fakeRates{limited: true})
	failure := errors.New("rate limited")

	r.Report(pipeline.Progress{Stage: pipeline.StageParsingRef})
	r.Report(pipeline.Progress{Stage: pipeline.StageFetchingIssues})
	r.Report(pipeline.Progress{Stage: pipeline.StageFailed, Err: failure})

	events := drain(ch)
	var limited bool
	for _, e := range events {
		if rl, ok := e.(RateLimitEvent); ok {
			limited = rl.Limited
		}
	}
	if !limited {
		t.Error("expected a limited RateLimitEvent")
	}

	final := map[TaskID]TaskEvent{}
	for _, te := range taskEvents(events) {
		final[te.Task] = te
	}
	if final[TaskFetch].Status != StatusError || final[TaskFetch].Error != failure {
		t.Errorf("fetch: expected error, got %+v", final[TaskFetch])
	}
	if final[TaskClassify].Status != StatusSkipped {
		t.Errorf("classify: expected skipped, got %d", final[TaskClassify].Status)
	}
}

func TestReporterValidationFailure(t *testing.T) {
	ch := make(chan Event, 64)
	r := NewReporter(ch, nil)

	r.Report(pipeline.Progress{Stage: pipeline.StageFailed, Err: errors.New("no token")})

	tes := taskEvents(drain(ch))
	if len(tes) == 0 || tes[0].Task != TaskParse || tes[0].Status != StatusError {
		t.Fatalf("expected parse task error first, got %+v", tes)
	}
	if len(tes) != 4 {
		t.Errorf("expected error plus three skipped tasks, got %d events", len(tes))
	}
}

func TestModelUpdateAndView(t *testing.T) {
	ch := make(chan Event)
	m := NewModel(ch)

	updated, _ := m.Update(TaskEvent{Task: TaskParse, Status: StatusComplete, Message: "acme/widgets"})
	m = updated.(Model)
	updated, _ = m.Update(TaskEvent{Task: TaskClassify, Status: StatusRunning, Progress: 0.5, Message: "1/2"})
	m = updated.(Model)
	updated, _ = m.Update(RateLimitEvent{Limited: true, ResetAt: time.Now().Add(time.Hour)})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"Analyzing", "acme/widgets", "Classifying issues", "50%", "(1/2)", "rate limit reached", "Ctrl+C"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	updated, cmd := m.Update(DoneEvent{})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if strings.Contains(m.View(), "Ctrl+C") {
		t.Error("cancel hint should be hidden when done")
	}
	if m.Canceled() {
		t.Error("finished model should not report canceled")
	}
}

func TestModelCancel(t *testing.T) {
	m := NewModel(make(chan Event))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).Canceled() {
		t.Error("expected canceled after ctrl+c")
	}
}

func TestWaitForEventClosed(t *testing.T) {
	ch := make(chan Event)
	close(ch)
	if _, ok := waitForEvent(ch)().(doneMsg); !ok {
		t.Error("expected doneMsg from closed channel")
	}
}
