package suite

import (
	"os"
	"path/filepath"
	"testing"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho ok\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFlatSuite(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "one.sh")
	writeExecutable(t, dir, "two.sh")

	suitePath := filepath.Join(dir, "all.yaml")
	content := "Tests:\n  - one.sh\n  - two.sh: { arguments: \"--fast --verbose\" }\n"
	if err := os.WriteFile(suitePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Load(suitePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	second := root.Children[1].(*Case)
	if len(second.Arguments) != 2 || second.Arguments[0] != "--fast" || second.Arguments[1] != "--verbose" {
		t.Errorf("unexpected arguments: %v", second.Arguments)
	}
}

func TestLoadMissingExecutable(t *testing.T) {
	dir := t.TempDir()
	suitePath := filepath.Join(dir, "all.yaml")
	content := "Tests:\n  - nope.sh\n"
	if err := os.WriteFile(suitePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(suitePath)
	var notExec *CaseNotExecutableError
	if err == nil {
		t.Fatal("expected error")
	}
	if e, ok := err.(*CaseNotExecutableError); ok {
		notExec = e
	} else {
		t.Fatalf("expected CaseNotExecutableError, got %T", err)
	}
	_ = notExec
}

func TestLoadEmptyTestsRejected(t *testing.T) {
	dir := t.TempDir()
	suitePath := filepath.Join(dir, "all.yaml")
	if err := os.WriteFile(suitePath, []byte("Tests: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(suitePath)
	if err == nil {
		t.Fatal("expected error for empty Tests")
	}
}

func TestDependenciesPropagateDownTree(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "dep.sh")
	writeExecutable(t, dir, "leaf.sh")

	subDir := filepath.Join(dir, "sub")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeExecutable(t, subDir, "leaf2.sh")

	subSuite := filepath.Join(subDir, "sub.yaml")
	if err := os.WriteFile(subSuite, []byte("Tests:\n  - leaf2.sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rootSuite := filepath.Join(dir, "root.yaml")
	content := "Dependencies:\n  - dep.sh\nTests:\n  - leaf.sh\n  - sub/sub.yaml\n"
	if err := os.WriteFile(rootSuite, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Load(rootSuite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Deps) != 1 {
		t.Fatalf("expected 1 root dependency, got %d", len(root.Deps))
	}

	leaf := root.Children[0].(*Case)
	if len(leaf.Deps) != 1 {
		t.Fatalf("expected leaf to inherit 1 dependency, got %d", len(leaf.Deps))
	}

	childSuite := root.Children[1].(*Suite)
	if len(childSuite.Deps) != 1 {
		t.Fatalf("expected child suite to inherit 1 dependency, got %d", len(childSuite.Deps))
	}
	nestedLeaf := childSuite.Children[0].(*Case)
	if len(nestedLeaf.Deps) != 1 {
		t.Fatalf("expected nested leaf to inherit 1 dependency, got %d", len(nestedLeaf.Deps))
	}

	// Mutating the child suite's own dependency slice must never affect
	// the root's, proving the copies are not aliased.
	childSuite.Deps[0] = leaf
	childSuite.Deps = append(childSuite.Deps, leaf)
	if len(root.Deps) != 1 || root.Deps[0] == Test(leaf) {
		t.Fatalf("root.Deps was mutated via child alias: %v", root.Deps)
	}
}

func TestJUnitNaming(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "a.sh")
	writeExecutable(t, dir, "b.sh")

	suitePath := filepath.Join(dir, "all.yaml")
	content := "Tests:\n  - a.sh\n  - b.sh\n"
	if err := os.WriteFile(suitePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Load(suitePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := root.Children[0].(*Case)
	if first.JUnitName() != "01_a" {
		t.Errorf("got %q", first.JUnitName())
	}
	second := root.Children[1].(*Case)
	if second.JUnitName() != "02_b" {
		t.Errorf("got %q", second.JUnitName())
	}
}

func TestFlattenOrdersDepthFirst(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "a.sh")
	writeExecutable(t, dir, "c.sh")

	subDir := filepath.Join(dir, "sub")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeExecutable(t, subDir, "b.sh")
	subSuite := filepath.Join(subDir, "sub.yaml")
	if err := os.WriteFile(subSuite, []byte("Tests:\n  - b.sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rootSuite := filepath.Join(dir, "root.yaml")
	content := "Tests:\n  - a.sh\n  - sub/sub.yaml\n  - c.sh\n"
	if err := os.WriteFile(rootSuite, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Load(rootSuite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flat := Flatten(root)
	if len(flat) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(flat))
	}
	names := []string{flat[0].CaseName, flat[1].CaseName, flat[2].CaseName}
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: got %q want %q", i, names[i], want[i])
		}
	}
}

func TestLoadTopLevelMixesCasesAndSuites(t *testing.T) {
	dir := t.TempDir()
	casePath := writeExecutable(t, dir, "standalone.sh")

	subDir := filepath.Join(dir, "sub")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeExecutable(t, subDir, "leaf.sh")
	suitePath := filepath.Join(subDir, "sub.yaml")
	if err := os.WriteFile(suitePath, []byte("Tests:\n  - leaf.sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := LoadTopLevel([]string{casePath, suitePath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if _, ok := root.Children[0].(*Case); !ok {
		t.Errorf("expected first child to be a Case, got %T", root.Children[0])
	}
	if _, ok := root.Children[1].(*Suite); !ok {
		t.Errorf("expected second child to be a Suite, got %T", root.Children[1])
	}
	if root.JUnitName() != "" {
		t.Errorf("expected root to contribute no junit segment, got %q", root.JUnitName())
	}
}
