// Package display provides terminal rendering for the harness's live TAP
// event stream and run summaries.
package display

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"mistest/internal/suite"
	"mistest/internal/tap"
)

// Display renders TAP events and case summaries with consistent styling.
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// New creates a Display with the default color theme.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display, disabling color when noColor is set.
func NewWithOptions(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Theme returns the current theme for external use.
func (d *Display) Theme() *Theme {
	return d.theme
}

// Event renders a single TAP event line, prefixed with "<resource> : "
// when prefix is set. A long Diagnostic wraps across multiple lines,
// each carrying the same resource prefix.
func (d *Display) Event(resource string, prefix bool, ev tap.Event) {
	if diag, ok := ev.(tap.Diagnostic); ok {
		for _, wrapped := range d.wrapText(diag.String(), d.termWidth-len(resource)-4) {
			fmt.Println(d.line(resource, prefix, tap.Diagnostic{Text: strings.TrimPrefix(wrapped, "# ")}))
		}
		return
	}
	fmt.Println(d.line(resource, prefix, ev))
}

func (d *Display) line(resource string, prefix bool, ev tap.Event) string {
	rendered := d.colorize(ev)
	if !prefix {
		return rendered
	}
	return d.theme.ResourceLabel(resource) + " : " + rendered
}

func (d *Display) colorize(ev tap.Event) string {
	switch v := ev.(type) {
	case tap.TestLine:
		switch v.Directive {
		case tap.DirectiveSkip:
			return d.theme.Skip(v.String())
		case tap.DirectiveTodo:
			return d.theme.Todo(v.String())
		}
		if v.OK {
			return d.theme.OK(v.String())
		}
		return d.theme.NotOK(v.String())
	case tap.Plan:
		return d.theme.Dim(v.String())
	case tap.Diagnostic:
		return d.theme.Diagnostic(v.String())
	default:
		return ev.String()
	}
}

// Summary renders a CaseExecutionResult's one-line report.
func (d *Display) Summary(resource string, prefix bool, r *suite.CaseExecutionResult) {
	text := r.Summary()
	if r.Failed != nil {
		text = d.theme.Error(text)
	} else {
		text = d.theme.Dim(text)
	}
	if prefix {
		text = d.theme.ResourceLabel(resource) + " : " + text
	}
	fmt.Println(text)
}

// RunSummary prints the final pass/fail banner for the whole harness run.
func (d *Display) RunSummary(ok bool, suites, cases, failures int) {
	if ok {
		fmt.Printf("%s %d suites, %d cases, 0 failures\n", d.theme.Success(SymbolSuccess), suites, cases)
		return
	}
	fmt.Printf("%s %d suites, %d cases, %d failures\n", d.theme.Error(SymbolError), suites, cases, failures)
}

// wrapText wraps text to the given width, used for long diagnostic lines.
func (d *Display) wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	text = strings.TrimSpace(text)
	if len(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len()+len(word)+1 > maxWidth {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return lines
}
