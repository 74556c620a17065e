package result

import "fmt"

// CaseInconsistentPlanError is raised when aggregating a Case's executions
// finds that they do not all report the same planned test count.
type CaseInconsistentPlanError struct {
	Case string
}

func (e *CaseInconsistentPlanError) Error() string {
	return fmt.Sprintf("case %q: executions disagree on planned test count", e.Case)
}
