// Package scheduler holds the flattened test iteration state and the set
// of worker resources, and multiplexes tests across them strictly
// first-come-first-served.
package scheduler

import (
	"context"
	"sync"

	"mistest/internal/suite"
	"mistest/internal/worker"
)

// Scheduler dispatches the flattened sequence of a root Suite's Cases
// across N resources, one test at a time per resource.
type Scheduler struct {
	resources []string
	workers   map[string]*worker.Worker
	output    chan worker.Item
	scheduled map[string]suite.Test
}

// New builds one Worker per resource, sharing a single output channel.
func New(resources []string) *Scheduler {
	output := make(chan worker.Item)
	s := &Scheduler{
		resources: resources,
		workers:   make(map[string]*worker.Worker, len(resources)),
		output:    output,
		scheduled: make(map[string]suite.Test, len(resources)),
	}
	for _, r := range resources {
		s.workers[r] = worker.New(r, output)
	}
	return s
}

// Run starts every worker, dispatches root's flattened Cases strictly
// FCFS, and terminates all workers once the sequence is exhausted and
// every resource has gone idle. onItem is called once for every item read
// off the shared channel, in the order the scheduler observes them —
// callers use it to drive a live sink.
func (s *Scheduler) Run(ctx context.Context, root *suite.Suite, onItem func(worker.Item)) {
	var wg sync.WaitGroup
	for _, r := range s.resources {
		wg.Add(1)
		w := s.workers[r]
		go func() {
			defer wg.Done()
			w.Loop(ctx)
		}()
	}

	for _, test := range suite.Flatten(root) {
		resource := s.waitForFreeResource(onItem)
		s.schedule(resource, test)
	}

	s.drainUntilIdle(onItem)

	for _, r := range s.resources {
		s.workers[r].Input <- worker.Job{Terminate: true}
	}
	wg.Wait()
}

func (s *Scheduler) schedule(resource string, test suite.Test) {
	s.scheduled[resource] = test
	s.workers[resource].Input <- worker.Job{Test: test}
}

// waitForFreeResource returns the first free resource in declared order,
// deterministically tie-breaking when more than one is free; if none are
// free, it drains the output channel — forwarding every item to onItem —
// until the result completing some worker's scheduled test arrives.
func (s *Scheduler) waitForFreeResource(onItem func(worker.Item)) string {
	if r, ok := s.firstFreeResource(); ok {
		return r
	}
	for {
		item := <-s.output
		onItem(item)
		if freed, ok := s.freeMatchingResource(item); ok {
			return freed
		}
	}
}

// drainUntilIdle reads the output channel until every resource is free.
func (s *Scheduler) drainUntilIdle(onItem func(worker.Item)) {
	for !s.allIdle() {
		item := <-s.output
		onItem(item)
		s.freeMatchingResource(item)
	}
}

func (s *Scheduler) allIdle() bool {
	for _, r := range s.resources {
		if s.scheduled[r] != nil {
			return false
		}
	}
	return true
}

func (s *Scheduler) firstFreeResource() (string, bool) {
	for _, r := range s.resources {
		if s.scheduled[r] == nil {
			return r, true
		}
	}
	return "", false
}

// freeMatchingResource marks the resource whose scheduled test identity
// matches item's free, if item is a terminal result for it.
func (s *Scheduler) freeMatchingResource(item worker.Item) (string, bool) {
	if item.Result == nil {
		return "", false
	}
	for _, r := range s.resources {
		if s.scheduled[r] == item.Test {
			s.scheduled[r] = nil
			return r, true
		}
	}
	return "", false
}
