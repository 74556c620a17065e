package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// testEntry is a single element of a Tests or Dependencies list: either a
// bare path, or a single-key mapping carrying arguments.
type testEntry struct {
	Path      string
	Arguments []string
}

func (t *testEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		t.Path = value.Value
		return nil
	case yaml.MappingNode:
		var m map[string]struct {
			Arguments string `yaml:"arguments"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		if len(m) != 1 {
			return fmt.Errorf("test entry mapping must have exactly one key, got %d", len(m))
		}
		for path, v := range m {
			t.Path = path
			if strings.TrimSpace(v.Arguments) != "" {
				t.Arguments = strings.Fields(v.Arguments)
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid test entry node kind %v", value.Kind)
	}
}

type suiteFile struct {
	Ordering     string      `yaml:"Ordering"`
	Dependencies []testEntry `yaml:"Dependencies"`
	Tests        []testEntry `yaml:"Tests"`
}

// Load parses the suite file at path and the tree of sub-suites and cases
// it declares, resolving relative paths against each suite file's own
// directory.
func Load(path string) (*Suite, error) {
	return loadSuite(path, nil, nil, 0)
}

func loadSuite(path string, parent *Suite, inheritedDeps []Test, seq int) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SuiteParseError{Path: path, Reason: err.Error()}
	}

	var sf suiteFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, &SuiteParseError{Path: path, Reason: err.Error()}
	}
	if len(sf.Tests) == 0 {
		return nil, &SuiteParseError{Path: path, Reason: "Tests must be non-empty"}
	}

	ordering := OrderingSequential
	switch strings.ToLower(strings.TrimSpace(sf.Ordering)) {
	case "", "sequential":
		ordering = OrderingSequential
	case "any":
		ordering = OrderingAny
	default:
		return nil, &SuiteParseError{Path: path, Reason: fmt.Sprintf("unknown ordering %q", sf.Ordering)}
	}

	s := &Suite{
		SuiteName:   stem(filepath.Base(path)),
		SourcePath:  path,
		ParentSuite: parent,
		Seq:         seq,
		Ord:         ordering,
	}

	dir := filepath.Dir(path)

	// Dependencies propagate as immutable values down the tree: this
	// suite's own list starts as a copy of what it inherited, never an
	// alias, so appending declarations here can't affect a sibling.
	ownDeps := make([]Test, len(inheritedDeps))
	copy(ownDeps, inheritedDeps)

	for i, entry := range sf.Dependencies {
		dep, err := loadChild(entry, dir, s, i+1, nil)
		if err != nil {
			return nil, err
		}
		ownDeps = appendDedup(ownDeps, dep)
	}
	s.Deps = ownDeps

	for i, entry := range sf.Tests {
		child, err := loadChild(entry, dir, s, i+1, ownDeps)
		if err != nil {
			return nil, err
		}
		s.Children = append(s.Children, child)
	}

	return s, nil
}

// LoadTopLevel builds the synthetic top-level Suite the CLI surface
// assembles from its trailing test tokens (spec §6): each token is
// resolved relative to the current working directory as either a
// sub-suite (".yaml"/".yml") or a Case, exactly like a <test entry> inside
// a suite file's Tests list.
func LoadTopLevel(paths []string) (*Suite, error) {
	root := &Suite{SuiteName: "", Ord: OrderingSequential}
	for i, p := range paths {
		child, err := loadChild(testEntry{Path: p}, ".", root, i+1, nil)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

func loadChild(entry testEntry, dir string, parent *Suite, seq int, deps []Test) (Test, error) {
	full := entry.Path
	if !filepath.IsAbs(full) {
		full = filepath.Join(dir, entry.Path)
	}

	if ext := strings.ToLower(filepath.Ext(entry.Path)); ext == ".yaml" || ext == ".yml" {
		return loadSuite(full, parent, deps, seq)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, &CaseNotExecutableError{Path: full}
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return nil, &CaseNotExecutableError{Path: full}
	}

	depsCopy := make([]Test, len(deps))
	copy(depsCopy, deps)

	return &Case{
		File:        full,
		Arguments:   entry.Arguments,
		CaseName:    stem(filepath.Base(full)),
		ParentSuite: parent,
		Seq:         seq,
		Deps:        depsCopy,
	}, nil
}

// appendDedup appends t to existing unless a Test resolving to the same
// source path is already present, implementing the dependency tree's
// "de-duplicated by identity" rule for a tree built fresh from declarative
// paths (two entries naming the same file are the same dependency).
func appendDedup(existing []Test, t Test) []Test {
	key := testKey(t)
	for _, e := range existing {
		if testKey(e) == key {
			return existing
		}
	}
	return append(existing, t)
}

func testKey(t Test) string {
	switch v := t.(type) {
	case *Case:
		return v.File
	case *Suite:
		return v.SourcePath
	default:
		return ""
	}
}
