package tap

import "testing"

func runLines(t *testing.T, lines []string) ([]Event, error) {
	t.Helper()
	p := New()
	var events []Event
	for _, line := range lines {
		ev, err := p.ParseLine(line)
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	if err := p.Finish(); err != nil {
		return events, err
	}
	return events, nil
}

func TestPlanWithDiagnostic(t *testing.T) {
	events, err := runLines(t, []string{"1..0 # all of them"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan, ok := events[0].(Plan)
	if !ok {
		t.Fatalf("expected Plan event, got %T", events[0])
	}
	if plan.Number != 0 || plan.Diagnostic != "all of them" {
		t.Errorf("got %+v", plan)
	}
}

func TestAllPassing(t *testing.T) {
	events, err := runLines(t, []string{"1..4 # all of them", "ok", "ok", "ok", "ok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
}

func TestNumberedDescriptions(t *testing.T) {
	events, err := runLines(t, []string{
		"1..3",
		"ok 1 Hello",
		"ok 2 drat",
		"not ok Sometimes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TestLine{
		{OK: true, Number: 1, Description: "Hello"},
		{OK: true, Number: 2, Description: "drat"},
		{OK: false, Number: 3, Description: "Sometimes"},
	}
	for i, w := range want {
		got, ok := events[i+1].(TestLine)
		if !ok {
			t.Fatalf("event %d: expected TestLine, got %T", i, events[i+1])
		}
		if got != w {
			t.Errorf("event %d: got %+v want %+v", i, got, w)
		}
	}
}

func TestTodoDirective(t *testing.T) {
	events, err := runLines(t, []string{"ok # ToDo the directive"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tl := events[0].(TestLine)
	if !tl.OK || tl.Number != 1 || tl.Description != "" || tl.Directive != DirectiveTodo || tl.DirectiveDescription != "the directive" {
		t.Errorf("got %+v", tl)
	}
}

func TestSkipDirective(t *testing.T) {
	events, err := runLines(t, []string{"not ok # skip"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tl := events[0].(TestLine)
	if tl.OK || tl.Number != 1 || tl.Directive != DirectiveSkip {
		t.Errorf("got %+v", tl)
	}
}

func TestNotTap(t *testing.T) {
	_, err := runLines(t, []string{"a wtf"})
	var notTap *NotTapError
	if err == nil {
		t.Fatal("expected error")
	}
	if !errorsAs(err, &notTap) {
		t.Fatalf("expected NotTapError, got %T: %v", err, err)
	}
	if notTap.Error() != `Non-TAP input was encountered: "a wtf"` {
		t.Errorf("got %q", notTap.Error())
	}
}

func TestPlanExceeded(t *testing.T) {
	_, err := runLines(t, []string{"1..1", "ok 1", "ok 2"})
	if err == nil || err.Error() != "Number of planned tests (1) exceeded" {
		t.Fatalf("got %v", err)
	}
}

func TestPlanShort(t *testing.T) {
	_, err := runLines(t, []string{"1..3", "ok 1", "ok 2"})
	if err == nil || err.Error() != "Number of executed tests (2) less than the number of planned (3)" {
		t.Fatalf("got %v", err)
	}
}

func TestUnexpectedNumber(t *testing.T) {
	_, err := runLines(t, []string{"ok", "ok 3"})
	if err == nil || err.Error() != "Unexpected test number 3 expecting 2" {
		t.Fatalf("got %v", err)
	}
}

func TestBailOut(t *testing.T) {
	_, err := runLines(t, []string{"Bail out!"})
	var bail *BailOutError
	if !errorsAs(err, &bail) {
		t.Fatalf("expected BailOutError, got %T: %v", err, err)
	}
	if bail.Error() != "Bail out!" {
		t.Errorf("got %q", bail.Error())
	}
}

func TestBailOutWithReason(t *testing.T) {
	_, err := runLines(t, []string{"Bail out! disk full"})
	if err == nil || err.Error() != "Bail out! disk full" {
		t.Fatalf("got %v", err)
	}
}

func TestEmptyPlan(t *testing.T) {
	events, err := runLines(t, []string{"1..0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan := events[0].(Plan)
	if plan.Number != 0 {
		t.Errorf("got %+v", plan)
	}
}

func TestDuplicatePlan(t *testing.T) {
	_, err := runLines(t, []string{"1..1", "ok", "1..2"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != `Non-TAP input was encountered: "Duplicate plan"` {
		t.Errorf("got %q", err.Error())
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []Event{
		Plan{Number: 4},
		TestLine{OK: true, Number: 1, Description: "Hello"},
		TestLine{OK: false, Number: 2, Directive: DirectiveTodo, DirectiveDescription: "fix it"},
		Diagnostic{Text: "progress note"},
	}
	p := New()
	for _, c := range cases {
		got, err := p.ParseLine(c.String())
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c, err)
		}
		if got != c {
			t.Errorf("round trip mismatch: got %+v want %+v", got, c)
		}
	}
}

// errorsAs is a tiny local helper so this package doesn't need to import
// "errors" purely for As() in table-driven tests above.
func errorsAs[T any](err error, target *T) bool {
	if e, ok := err.(T); ok {
		*target = e
		return true
	}
	return false
}
