// Package worker implements the per-resource execution loop: one worker
// owns one resource label, drains a queue of tests to run, executes each
// test's dependencies before the test itself, and forwards every TAP event
// and terminal result onto a shared output channel.
package worker

import (
	"context"

	"mistest/internal/runner"
	"mistest/internal/suite"
	"mistest/internal/tap"
)

// Job is a unit of work sent to a Worker's input queue: either a Test to
// run, or the Terminate sentinel telling the worker to exit its loop.
type Job struct {
	Test      suite.Test
	Terminate bool
}

// Item is forwarded on the shared output channel: either a TAP event or a
// terminal CaseExecutionResult, tagged with the resource and the Test
// identity it belongs to so the scheduler can match it back to the job it
// dispatched.
type Item struct {
	Event    tap.Event
	Result   *suite.CaseExecutionResult
	Test     suite.Test
	Resource string
}

// Worker owns one resource and the set of dependencies it has already
// completed, scoped to this worker alone — dependency completion is never
// shared across resources.
type Worker struct {
	Resource  string
	Input     chan Job
	Output    chan<- Item
	completed map[suite.Test]struct{}
}

// New returns a Worker ready to have its Loop run in its own goroutine.
func New(resource string, output chan<- Item) *Worker {
	return &Worker{
		Resource:  resource,
		Input:     make(chan Job),
		Output:    output,
		completed: make(map[suite.Test]struct{}),
	}
}

// Loop blocks reading Input until a Terminate job arrives.
func (w *Worker) Loop(ctx context.Context) {
	for job := range w.Input {
		if job.Terminate {
			return
		}
		w.runTest(ctx, job.Test)
	}
}

// runTest runs every not-yet-completed dependency of test, then test
// itself, forwarding every event/result produced along the way.
func (w *Worker) runTest(ctx context.Context, test suite.Test) {
	for _, dep := range test.Dependencies() {
		if _, done := w.completed[dep]; done {
			continue
		}
		w.execute(ctx, dep)
		w.completed[dep] = struct{}{}
	}
	w.execute(ctx, test)
}

// execute runs a single Test node: a Case spawns its executable directly;
// a Suite (only reachable here as a dependency naming a sub-suite wholesale)
// runs every Case beneath it, in its flattened dispatch order, on this same
// worker.
func (w *Worker) execute(ctx context.Context, test suite.Test) {
	switch v := test.(type) {
	case *suite.Case:
		for item := range runner.Run(ctx, v, w.Resource) {
			w.Output <- Item{Event: item.Event, Result: item.Result, Test: test, Resource: w.Resource}
		}
	case *suite.Suite:
		for _, c := range suite.Flatten(v) {
			w.runTest(ctx, c)
		}
	}
}
