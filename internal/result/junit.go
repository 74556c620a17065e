package result

import (
	"encoding/xml"
	"fmt"
)

// JUnitFailure marks a testcase as not-ok. Presence (not content) is what
// JUnit consumers key on, per spec §4.7.
type JUnitFailure struct{}

// JUnitTestCase is one aggregated TestLine, per spec §6.
type JUnitTestCase struct {
	XMLName xml.Name      `xml:"testcase"`
	Name    string        `xml:"name,attr"`
	Failure *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitTestSuite is one Suite's rollup, per spec §4.7 ("name omitted for
// the root").
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr,omitempty"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestSuites is the document root, per spec §6.
type JUnitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []JUnitTestSuite `xml:"testsuite"`
}

// JUnit walks the SuiteResult tree and builds the <testsuites> document:
// one <testsuite> per Suite (including the root, whose name is omitted),
// with one <testcase> per aggregated TestLine and a <failure/> marker on
// any testcase whose aggregated outcome is not ok.
func (sr *SuiteResult) JUnit() JUnitTestSuites {
	var suites []JUnitTestSuite
	sr.collectSuites(&suites)
	return JUnitTestSuites{Suites: suites}
}

func (sr *SuiteResult) collectSuites(out *[]JUnitTestSuite) {
	ts := JUnitTestSuite{Name: sr.Suite.JUnitName()}
	for _, cr := range sr.Cases {
		for i := 1; i <= cr.Len(); i++ {
			line := cr.Line(i)
			tc := JUnitTestCase{Name: caseLineName(cr, line)}
			if !line.OK {
				tc.Failure = &JUnitFailure{}
				ts.Failures++
			}
			ts.TestCases = append(ts.TestCases, tc)
			ts.Tests++
		}
		if cr.Len() == 0 {
			// A Case with no recorded TestLine (e.g. "1..0") still
			// contributes one testcase entry so it isn't silently absent
			// from the report.
			tc := JUnitTestCase{Name: cr.Case.JUnitName()}
			if !cr.OK() {
				tc.Failure = &JUnitFailure{}
				ts.Failures++
			}
			ts.TestCases = append(ts.TestCases, tc)
			ts.Tests++
		}
	}
	*out = append(*out, ts)

	for _, child := range sr.Suites {
		child.collectSuites(out)
	}
}

func caseLineName(cr *CaseResult, line TestLineAggregate) string {
	if line.Description != "" {
		return fmt.Sprintf("%s: %s", cr.Case.JUnitName(), line.Description)
	}
	return fmt.Sprintf("%s #%d", cr.Case.JUnitName(), line.Number)
}
