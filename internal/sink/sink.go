// Package sink consumes the scheduler's shared output channel: it renders
// TAP events and case summaries to the terminal, either as they arrive or
// buffered per case, and — once the run is complete — walks the result
// tree to emit a JUnit XML report.
package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"mistest/internal/display"
	"mistest/internal/result"
	"mistest/internal/suite"
	"mistest/internal/tap"
	"mistest/internal/worker"
)

// Options configures a Sink's rendering behavior, mirroring the CLI's
// --immediate-output and --junit-xml flags.
type Options struct {
	Immediate          bool
	PrefixWithResource bool
	JunitXMLPath       string
}

type bufferedEvent struct {
	resource string
	event    tap.Event
}

// Sink renders items forwarded by the scheduler.
type Sink struct {
	opts     Options
	disp     *display.Display
	buffered map[*suite.Case][]bufferedEvent
}

// New creates a Sink that renders through disp according to opts.
func New(opts Options, disp *display.Display) *Sink {
	return &Sink{
		opts:     opts,
		disp:     disp,
		buffered: make(map[*suite.Case][]bufferedEvent),
	}
}

// Handle renders or buffers a single item from the scheduler's output
// channel. It is safe to call sequentially from the scheduler's own
// draining goroutine — that is the only caller.
func (s *Sink) Handle(item worker.Item) {
	if item.Event != nil {
		s.handleEvent(item)
		return
	}
	if item.Result != nil {
		s.handleResult(item)
	}
}

func (s *Sink) handleEvent(item worker.Item) {
	if s.opts.Immediate {
		s.disp.Event(item.Resource, s.opts.PrefixWithResource, item.Event)
		return
	}
	c, ok := item.Test.(*suite.Case)
	if !ok {
		return
	}
	s.buffered[c] = append(s.buffered[c], bufferedEvent{resource: item.Resource, event: item.Event})
}

func (s *Sink) handleResult(item worker.Item) {
	if !s.opts.Immediate {
		if c, ok := item.Test.(*suite.Case); ok {
			for _, be := range s.buffered[c] {
				s.disp.Event(be.resource, s.opts.PrefixWithResource, be.event)
			}
			delete(s.buffered, c)
		}
	}
	s.disp.Summary(item.Resource, s.opts.PrefixWithResource, item.Result)
}

// PostProcess prints the final pass/fail summary for root and, if a JUnit
// path was configured, walks root's aggregated SuiteResult to write the
// XML report. It returns the aggregated overall outcome so the caller can
// set the process exit code.
func (s *Sink) PostProcess(root *suite.Suite) (bool, error) {
	sr, err := result.NewSuiteResult(root)
	if err != nil {
		return false, err
	}

	suites, cases, failures := countResults(sr)
	s.disp.RunSummary(sr.OKValue, suites, cases, failures)

	if s.opts.JunitXMLPath != "" {
		if err := writeJUnit(sr, s.opts.JunitXMLPath); err != nil {
			return sr.OKValue, fmt.Errorf("writing junit xml: %w", err)
		}
	}

	return sr.OKValue, nil
}

func countResults(sr *result.SuiteResult) (suites, cases, failures int) {
	suites = 1
	for _, cr := range sr.Cases {
		cases++
		if !cr.OK() {
			failures++
		}
	}
	for _, child := range sr.Suites {
		cs, ca, f := countResults(child)
		suites += cs
		cases += ca
		failures += f
	}
	return suites, cases, failures
}

func writeJUnit(sr *result.SuiteResult, path string) error {
	doc := sr.JUnit()

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	buf.WriteByte('\n')

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
