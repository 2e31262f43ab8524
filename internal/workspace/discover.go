package workspace

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverTargets walks the workspace and returns the workspace-relative
// paths of Python source files eligible for mutation, sorted for
// deterministic ordering.
//
// Skipped outright:
//   - dot-directories (.git, .mutant, editor metadata) and dot-files
//   - the configured virtual environment directory and __pycache__
//   - test files (test_*.py, *_test.py) and conftest.py — mutating the
//     suite itself would measure nothing
//   - anything matching a configured exclude glob (checked against both
//     the relative path and the base name)
func DiscoverTargets(workspacePath string, cfg *Config) ([]string, error) {
	var targets []string

	err := filepath.WalkDir(workspacePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(workspacePath, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") || name == "__pycache__" {
				return filepath.SkipDir
			}
			if rel == filepath.Clean(cfg.VenvDir) {
				return filepath.SkipDir
			}
			if matchesExclude(rel, name, cfg.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".py") {
			return nil
		}
		if isTestFile(name) {
			return nil
		}
		if matchesExclude(rel, name, cfg.Exclude) {
			return nil
		}

		targets = append(targets, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(targets)
	return targets, nil
}

// isTestFile reports whether the file name belongs to the test suite
// rather than the code under test.
func isTestFile(name string) bool {
	return strings.HasPrefix(name, "test_") ||
		strings.HasSuffix(name, "_test.py") ||
		name == "conftest.py"
}

// matchesExclude reports whether the relative path or base name matches
// any exclude glob. Malformed patterns never match; they are not worth
// failing a walk over.
func matchesExclude(rel, name string, excludes []string) bool {
	for _, pattern := range excludes {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.ToSlash(rel)); ok {
			return true
		}
	}
	return false
}
