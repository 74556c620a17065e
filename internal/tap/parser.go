package tap

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bailOutRe  = regexp.MustCompile(`(?i)^bail[ \t]*out!(.*)$`)
	planRe     = regexp.MustCompile(`^1\.\.(\d+)[ \t]*(?:#[ \t]*(.*))?$`)
	testLineRe = regexp.MustCompile(`^(not[ \t]+ok|ok)\b(?:[ \t]+(\d+))?[ \t]*-?[ \t]*([^#]*)(?:#[ \t]*(.*))?$`)
	diagRe     = regexp.MustCompile(`^#[ \t]*(.*)$`)
)

// Parser holds the running state needed to validate a stream of TAP lines:
// the declared plan (if any) and the count of TestLine events emitted so
// far. One Parser instance is used per Case invocation and discarded
// afterward; it is not safe for concurrent use.
type Parser struct {
	planned    *int
	testNumber int
}

// New creates a Parser ready to consume the first line of a fresh TAP
// stream.
func New() *Parser {
	return &Parser{}
}

// ParseLine lexes and parses a single line of TAP output, returning the
// event it produces (if any) or a typed error. The lexer state resets at
// the start of every call, matching the line-oriented grammar of spec §4.1.
func (p *Parser) ParseLine(line string) (Event, error) {
	line = strings.TrimRight(line, "\r\n")
	stripped := strings.TrimSpace(line)

	if m := bailOutRe.FindStringSubmatch(stripped); m != nil {
		return nil, &BailOutError{Description: strings.TrimSpace(m[1])}
	}

	if m := planRe.FindStringSubmatch(stripped); m != nil {
		return p.handlePlan(m)
	}

	if m := testLineRe.FindStringSubmatch(stripped); m != nil {
		return p.handleTestLine(m)
	}

	if m := diagRe.FindStringSubmatch(stripped); m != nil {
		return Diagnostic{Text: strings.TrimSpace(m[1])}, nil
	}

	return nil, &NotTapError{Line: stripped}
}

func (p *Parser) handlePlan(m []string) (Event, error) {
	if p.planned != nil {
		return nil, &NotTapError{Line: "Duplicate plan"}
	}

	number, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, &NotTapError{Line: m[0]}
	}

	if p.testNumber > number {
		return nil, newPlanExceededError(number)
	}

	p.planned = &number

	diagnostic := strings.TrimSpace(m[2])
	return Plan{Number: number, Diagnostic: diagnostic, HasComment: diagnostic != ""}, nil
}

func (p *Parser) handleTestLine(m []string) (Event, error) {
	ok := m[1] == "ok"

	p.testNumber++

	if p.planned != nil && p.testNumber > *p.planned {
		return nil, newPlanExceededError(*p.planned)
	}

	number := p.testNumber
	if m[2] != "" {
		explicit, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, &NotTapError{Line: m[0]}
		}
		if explicit != p.testNumber {
			return nil, &NumberingError{Got: explicit, Expected: p.testNumber}
		}
		number = explicit
	}

	description := strings.TrimSpace(m[3])

	directive := DirectiveNone
	directiveDescription := ""
	if raw := strings.TrimSpace(m[4]); raw != "" {
		fields := strings.SplitN(raw, " ", 2)
		word := fields[0]
		switch {
		case strings.EqualFold(word, "TODO"):
			directive = DirectiveTodo
		case strings.EqualFold(word, "SKIP"):
			directive = DirectiveSkip
		default:
			return nil, &NotTapError{Line: m[0]}
		}
		if len(fields) > 1 {
			directiveDescription = strings.TrimSpace(fields[1])
		}
	}

	return TestLine{
		OK:                   ok,
		Number:               number,
		Description:          description,
		Directive:            directive,
		DirectiveDescription: directiveDescription,
	}, nil
}

// Finish must be called once the input stream has been exhausted with no
// prior error. It reports a PlanError if fewer tests ran than were planned.
func (p *Parser) Finish() error {
	if p.planned != nil && p.testNumber < *p.planned {
		return newPlanShortError(p.testNumber, *p.planned)
	}
	return nil
}
