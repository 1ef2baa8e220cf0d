// Package matchers holds the path matching rules the generator applies
// while walking a template: ignore entries, copy-without-render globs and
// version-control metadata directories.
package matchers

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/johnlanda/kickstart/pkg/errors"
)

// IgnoreMode selects how ignore entries are compared with relative paths.
type IgnoreMode string

const (
	// IgnorePrefix matches when the relative path equals the entry or starts
	// with it as a raw string, so "src" also ignores "src-extra/file.txt".
	IgnorePrefix IgnoreMode = "prefix"

	// IgnoreComponent matches whole path components only.
	IgnoreComponent IgnoreMode = "component"
)

// ParseIgnoreMode validates a mode name; the empty string selects IgnorePrefix.
func ParseIgnoreMode(s string) (IgnoreMode, error) {
	switch IgnoreMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", IgnorePrefix:
		return IgnorePrefix, nil
	case IgnoreComponent:
		return IgnoreComponent, nil
	}
	return "", errors.Newf(errors.ErrConfigLoad, "unknown ignore mode %q (want %q or %q)", s, IgnorePrefix, IgnoreComponent)
}

// IgnoreMatcher decides whether a template entry is excluded from the walk.
type IgnoreMatcher struct {
	entries []string
	mode    IgnoreMode
}

// NewIgnoreMatcher normalizes the entries to slash-separated form.
func NewIgnoreMatcher(entries []string, mode IgnoreMode) *IgnoreMatcher {
	normalized := make([]string, 0, len(entries))
	for _, e := range entries {
		e = NormalizeRel(e)
		if e == "" {
			continue
		}
		normalized = append(normalized, e)
	}
	if mode == "" {
		mode = IgnorePrefix
	}
	return &IgnoreMatcher{entries: normalized, mode: mode}
}

// Match reports whether rel is ignored and by which entry.
func (m *IgnoreMatcher) Match(rel string) (bool, string) {
	rel = NormalizeRel(rel)
	for _, e := range m.entries {
		if rel == e {
			return true, e
		}
		switch m.mode {
		case IgnoreComponent:
			if strings.HasPrefix(rel, strings.TrimSuffix(e, "/")+"/") {
				return true, e
			}
		default:
			if strings.HasPrefix(rel, e) {
				return true, e
			}
		}
	}
	return false, ""
}

// GlobSet is a list of copy-without-render patterns compiled once per run.
type GlobSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompileGlobs compiles every pattern. A "*" matches across "/" so that
// "*.png" matches "assets/logo.png".
func CompileGlobs(patterns []string) (*GlobSet, error) {
	set := &GlobSet{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidDefinition, "invalid copy_without_render pattern %q", p).
				WithDetail("pattern", p)
		}
		set.patterns = append(set.patterns, p)
		set.globs = append(set.globs, g)
	}
	return set, nil
}

// Match reports whether rel matches any pattern and returns the first one.
func (s *GlobSet) Match(rel string) (bool, string) {
	if s == nil {
		return false, ""
	}
	rel = NormalizeRel(rel)
	for i, g := range s.globs {
		if g.Match(rel) {
			return true, s.patterns[i]
		}
	}
	return false, ""
}

func (s *GlobSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.globs)
}

// DefaultVCSDirs are the version-control metadata directories never walked.
var DefaultVCSDirs = []string{".git", ".hg", ".svn", ".bzr"}

// IsVCSDir reports whether a directory name is version-control metadata.
func IsVCSDir(name string, vcsDirs []string) bool {
	for _, d := range vcsDirs {
		if name == d {
			return true
		}
	}
	return false
}

// NormalizeRel converts a relative path to slash form without a leading "./".
func NormalizeRel(rel string) string {
	rel = filepath.ToSlash(strings.TrimSpace(rel))
	for strings.HasPrefix(rel, "./") {
		rel = rel[2:]
	}
	if rel == "." {
		return ""
	}
	return rel
}

// IsWithin reports whether a cleaned slash path stays below its root.
func IsWithin(rel string) bool {
	if rel == "" || path.IsAbs(rel) || filepath.IsAbs(rel) {
		return false
	}
	clean := path.Clean(rel)
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}
