// Package discovery enumerates the source files a scan will process,
// filtered by include/ignore glob patterns. Walk order is lexical, so
// the result is deterministic for a given tree.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/lkoehl/jsmanifest/internal/errs"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds source files under a root directory.
type Discovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// New compiles the include and ignore patterns for the given root.
// A malformed pattern is an input error.
func New(rootDir string, includePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errs.Input("invalid include pattern %q: %v", pattern, err)
		}
		d.includePatterns = append(d.includePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errs.Input("invalid ignore pattern %q: %v", pattern, err)
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Files walks the root directory and returns matching file paths in
// walk order. A missing or unreadable root is a file-system error.
func (d *Discovery) Files() ([]string, error) {
	info, err := os.Stat(d.rootDir)
	if err != nil {
		return nil, errs.FileSystem(d.rootDir, err)
	}
	if !info.IsDir() {
		return nil, errs.Input("%s is not a directory", d.rootDir)
	}

	files := []string{}
	walkErr := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errs.FileSystem(path, err)
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return errs.FileSystem(path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			// Prune ignored directories instead of descending.
			if relPath != "." && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.shouldIgnore(relPath) {
			return nil
		}
		if d.matchesAnyPattern(relPath, d.includePatterns) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return files, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// A directory "node_modules" should match pattern "node_modules/**".
	return d.matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given
// patterns. Patterns with a leading **/ also match root-level paths,
// as users expect "**/*.ts" to match "index.ts".
func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
