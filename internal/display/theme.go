package display

import "github.com/fatih/color"

// Status symbols used in the run summary banner.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
)

// Theme holds all color functions for consistent styling of rendered TAP
// output.
type Theme struct {
	// Resource tagging, shown when prefixWithResource is set.
	ResourceLabel func(a ...interface{}) string

	// Per-TestLine outcome coloring.
	OK         func(a ...interface{}) string
	NotOK      func(a ...interface{}) string
	Skip       func(a ...interface{}) string
	Todo       func(a ...interface{}) string
	Diagnostic func(a ...interface{}) string

	// Status indicators used for summary lines.
	Success func(a ...interface{}) string
	Error   func(a ...interface{}) string

	// Structural elements.
	Dim func(a ...interface{}) string
}

// DefaultTheme creates the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		ResourceLabel: color.New(color.FgCyan, color.Bold).SprintFunc(),

		OK:         color.New(color.FgGreen).SprintFunc(),
		NotOK:      color.New(color.FgRed).SprintFunc(),
		Skip:       color.New(color.FgYellow).SprintFunc(),
		Todo:       color.New(color.FgMagenta).SprintFunc(),
		Diagnostic: color.New(color.FgHiBlack).SprintFunc(),

		Success: color.New(color.FgGreen).SprintFunc(),
		Error:   color.New(color.FgRed).SprintFunc(),

		Dim: color.New(color.FgHiBlack).SprintFunc(),
	}
}

// NoColorTheme creates a theme without colors (for --no-color or a
// non-TTY sink).
func NoColorTheme() *Theme {
	identity := func(a ...interface{}) string {
		if len(a) == 0 {
			return ""
		}
		return a[0].(string)
	}
	return &Theme{
		ResourceLabel: identity,
		OK:            identity,
		NotOK:         identity,
		Skip:          identity,
		Todo:          identity,
		Diagnostic:    identity,
		Success:       identity,
		Error:         identity,
		Dim:           identity,
	}
}
