// Package result aggregates one or more CaseExecutionResults belonging to
// the same Case into a CaseResult, and rolls Case/Suite results up into a
// SuiteResult tree.
package result

import (
	"mistest/internal/suite"
	"mistest/internal/tap"
)

// TestLineAggregate is the i-th TestLine across every execution of a
// Case, ANDed together.
type TestLineAggregate struct {
	Number      int
	OK          bool
	Directive   tap.Directive
	Description string
}

// CaseResult aggregates every CaseExecutionResult recorded for one Case.
type CaseResult struct {
	Case  *suite.Case
	lines []TestLineAggregate
}

// NewCaseResult builds the aggregate for c's recorded executions. It
// fails with CaseInconsistentPlanError if the executions disagree on the
// planned count.
func NewCaseResult(c *suite.Case) (*CaseResult, error) {
	execs := c.ExecutionResults
	if len(execs) == 0 {
		return &CaseResult{Case: c}, nil
	}

	planned := -1
	for _, e := range execs {
		p := 0
		if e.Planned != nil {
			p = *e.Planned
		}
		if planned == -1 {
			planned = p
		} else if planned != p {
			return nil, &CaseInconsistentPlanError{Case: c.Name()}
		}
	}

	lines := make([]TestLineAggregate, planned)
	for i := 0; i < planned; i++ {
		lines[i] = aggregateLine(execs, i+1)
	}
	return &CaseResult{Case: c, lines: lines}, nil
}

func aggregateLine(execs []*suite.CaseExecutionResult, number int) TestLineAggregate {
	ok := true
	agree := true
	var directive tap.Directive
	var description string
	first := true

	for _, e := range execs {
		tl, found := nthTestLine(e, number)
		if !found || !tl.OK {
			ok = false
		}
		if first {
			directive = tl.Directive
			description = tl.Description
			first = false
		} else if tl.Directive != directive {
			agree = false
		}
	}
	if !agree {
		directive = tap.DirectiveNone
	}
	return TestLineAggregate{Number: number, OK: ok, Directive: directive, Description: description}
}

func nthTestLine(e *suite.CaseExecutionResult, n int) (tap.TestLine, bool) {
	count := 0
	for _, ev := range e.Events {
		if tl, ok := ev.(tap.TestLine); ok {
			count++
			if count == n {
				return tl, true
			}
		}
	}
	return tap.TestLine{}, false
}

// Len reports the planned test count, 0 if no executions were recorded.
func (r *CaseResult) Len() int { return len(r.lines) }

// Line returns the 1-indexed aggregated TestLine.
func (r *CaseResult) Line(i int) TestLineAggregate { return r.lines[i-1] }

// OK is the AND of every aggregated line, and of every execution having
// completed without failure.
func (r *CaseResult) OK() bool {
	for _, e := range r.Case.ExecutionResults {
		if e.Failed != nil {
			return false
		}
	}
	for _, l := range r.lines {
		if !l.OK {
			return false
		}
	}
	return true
}

// SuiteResult rolls up a Suite's children (CaseResult or nested
// SuiteResult) with an AND over their OK values.
type SuiteResult struct {
	Suite   *suite.Suite
	Cases   []*CaseResult
	Suites  []*SuiteResult
	OKValue bool
}

// NewSuiteResult aggregates every child of s, recursively.
func NewSuiteResult(s *suite.Suite) (*SuiteResult, error) {
	sr := &SuiteResult{Suite: s}
	ok := true

	for _, child := range s.Children {
		switch v := child.(type) {
		case *suite.Case:
			cr, err := NewCaseResult(v)
			if err != nil {
				return nil, err
			}
			sr.Cases = append(sr.Cases, cr)
			if !cr.OK() {
				ok = false
			}
		case *suite.Suite:
			csr, err := NewSuiteResult(v)
			if err != nil {
				return nil, err
			}
			sr.Suites = append(sr.Suites, csr)
			if !csr.OKValue {
				ok = false
			}
		}
	}

	sr.OKValue = ok
	return sr, nil
}
