// Package cliargs disambiguates the mistest CLI's positional tokens into
// resource labels and test paths, per spec §6.
package cliargs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parsed holds the resources and test paths recovered from the positional
// token list.
type Parsed struct {
	Resources []string
	Tests     []string
}

// Parse splits tokens into resources and tests. If a "-" separator is
// present, everything before it is a resource and everything after it is
// a test (spec §6's "separated" form). Otherwise tokens are classified
// one at a time: leading tokens that don't look like a test case or suite
// are resources, and once a test-shaped token is seen, every remaining
// token must also look like one.
func Parse(tokens []string) (Parsed, error) {
	for i, t := range tokens {
		if t == "-" {
			return parseSeparated(tokens, i)
		}
	}
	return parseUnseparated(tokens)
}

func parseSeparated(tokens []string, sep int) (Parsed, error) {
	p := Parsed{Resources: append([]string{}, tokens[:sep]...)}
	for _, t := range tokens[sep+1:] {
		if !looksLikeASuite(t) && !looksLikeACase(t) {
			return Parsed{}, fmt.Errorf("%s does not appear to be a test case or suite", t)
		}
		p.Tests = append(p.Tests, t)
	}
	return p, nil
}

func parseUnseparated(tokens []string) (Parsed, error) {
	var p Parsed
	tokensAreResources := true
	for _, t := range tokens {
		switch {
		case looksLikeASuite(t) || looksLikeACase(t):
			p.Tests = append(p.Tests, t)
			tokensAreResources = false
		case tokensAreResources:
			p.Resources = append(p.Resources, t)
		default:
			return Parsed{}, fmt.Errorf("%s does not appear to be a test case or suite", t)
		}
	}
	return p, nil
}

// looksLikeASuite reports whether path names an existing ".yaml"/".yml"
// file.
func looksLikeASuite(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// looksLikeACase reports whether path names an existing executable file.
func looksLikeACase(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

// ResolveResources applies spec §6's defaulting rule: if no resources were
// given, synthesize "local" for a single job, or "local0..localN-1" for N
// jobs.
func ResolveResources(explicit []string, jobs int) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if jobs <= 1 {
		return []string{"local"}
	}
	out := make([]string, jobs)
	for i := range out {
		out[i] = fmt.Sprintf("local%d", i)
	}
	return out
}
