package tap

import "fmt"

// NotTapError is raised when a line cannot be parsed as any TAP production.
type NotTapError struct {
	Line string
}

func (e *NotTapError) Error() string {
	return fmt.Sprintf("Non-TAP input was encountered: %q", e.Line)
}

// NumberingError is raised when an explicit test number disagrees with the
// running count of TestLine events seen so far.
type NumberingError struct {
	Got, Expected int
}

func (e *NumberingError) Error() string {
	return fmt.Sprintf("Unexpected test number %d expecting %d", e.Got, e.Expected)
}

// PlanError is raised when the number of TestLine events observed does not
// match the planned count: either more tests ran than were planned, or the
// stream ended before the planned count was reached.
type PlanError struct {
	message string
}

func (e *PlanError) Error() string {
	return e.message
}

func newPlanExceededError(planned int) *PlanError {
	return &PlanError{message: fmt.Sprintf("Number of planned tests (%d) exceeded", planned)}
}

func newPlanShortError(ran, planned int) *PlanError {
	return &PlanError{message: fmt.Sprintf("Number of executed tests (%d) less than the number of planned (%d)", ran, planned)}
}

// BailOutError is raised when the child process emits "Bail out!".
type BailOutError struct {
	Description string
}

func (e *BailOutError) Error() string {
	if e.Description == "" {
		return "Bail out!"
	}
	return "Bail out! " + e.Description
}
