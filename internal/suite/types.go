// Package suite defines the declarative tree of tests (Cases and Suites)
// that the scheduler walks, along with the per-run result the Case Runner
// produces for each execution of a Case.
package suite

import (
	"strconv"

	"mistest/internal/tap"
)

// Ordering records a suite file's declared Ordering value. Flatten does not
// consult it: the Cases of sequential and any-ordered Suites alike are
// dispatched depth-first in declared order, each to the next free
// resource, so the Cases of a sequential Suite may run concurrently on
// different resources.
type Ordering int

const (
	// OrderingSequential is the default, and the value of "sequential".
	OrderingSequential Ordering = iota
	// OrderingAny is the value of "any".
	OrderingAny
)

func (o Ordering) String() string {
	if o == OrderingAny {
		return "any"
	}
	return "sequential"
}

// Test is the shared interface of Case and Suite: the two members of the
// Test sum type described by the tree.
type Test interface {
	Name() string
	Parent() *Suite
	Sequence() int
	Dependencies() []Test
	JUnitName() string

	isTest()
}

// Case is a single executable test program.
type Case struct {
	File        string
	Arguments   []string
	Environment map[string]string
	CaseName    string
	ParentSuite *Suite
	Seq         int
	Deps        []Test

	// ExecutionResults accumulates once per invocation of this Case;
	// appended to only by the worker currently running it.
	ExecutionResults []*CaseExecutionResult
}

// String renders the Case as its backing file path.
func (c *Case) String() string { return c.File }

func (c *Case) Name() string         { return c.CaseName }
func (c *Case) Parent() *Suite       { return c.ParentSuite }
func (c *Case) Sequence() int        { return c.Seq }
func (c *Case) Dependencies() []Test { return c.Deps }
func (c *Case) JUnitName() string    { return junitSegment(c.ParentSuite, c.Seq, c.CaseName) }
func (*Case) isTest()                {}

// Suite is an ordered collection of Cases and sub-Suites.
type Suite struct {
	SuiteName   string
	SourcePath  string
	ParentSuite *Suite
	Seq         int
	Ord         Ordering
	Children    []Test
	Deps        []Test
}

func (s *Suite) Name() string         { return s.SuiteName }
func (s *Suite) Parent() *Suite       { return s.ParentSuite }
func (s *Suite) Sequence() int        { return s.Seq }
func (s *Suite) Dependencies() []Test { return s.Deps }
func (*Suite) isTest()                {}

// JUnitName reports the dotted report name for this Suite. The root Suite
// (no parent) contributes no segment of its own.
func (s *Suite) JUnitName() string {
	if s.ParentSuite == nil {
		return ""
	}
	return junitSegment(s.ParentSuite, s.Seq, s.SuiteName)
}

// CaseExecutionResult is produced once per invocation of a Case.
type CaseExecutionResult struct {
	Planned *int
	Ran     int
	OK      int
	NotOK   int
	Skip    int
	Todo    int
	Failed  *string
	Events  []tap.Event
}

// Summary renders the one-line per-run report described for the sink:
// "# planned: P ran: R ok: X not ok: Y skip: S todo: T" for a clean run,
// or "# failed: <message>" for one that aborted.
func (r *CaseExecutionResult) Summary() string {
	if r.Failed != nil {
		return "# failed: " + *r.Failed
	}
	if r.Planned != nil {
		return "# planned: " + strconv.Itoa(*r.Planned) + " ran: " + strconv.Itoa(r.Ran) +
			" ok: " + strconv.Itoa(r.OK) + " not ok: " + strconv.Itoa(r.NotOK) +
			" skip: " + strconv.Itoa(r.Skip) + " todo: " + strconv.Itoa(r.Todo)
	}
	return "# ran: " + strconv.Itoa(r.Ran) + " ok: " + strconv.Itoa(r.OK) +
		" not ok: " + strconv.Itoa(r.NotOK) + " skip: " + strconv.Itoa(r.Skip) + " todo: " + strconv.Itoa(r.Todo)
}
