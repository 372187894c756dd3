// Package ignore provides the exclusion matcher applied during tree walking
// and file selection. Matching semantics follow gitignore precedence,
// including negation patterns, and are delegated to
// github.com/monochromegane/go-gitignore.
package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Matcher reports whether a path is excluded. Patterns are anchored at the
// directory holding the ignore file, so paths outside it never match.
// Directory probes must set isDirectory so that directory-only rules
// (patterns with a trailing separator) can match.
type Matcher interface {
	Match(path string, isDirectory bool) bool
}

type patternMatcher struct {
	matcher gitignore.IgnoreMatcher
}

// Match resolves path to its absolute form before delegating: the underlying
// matcher relativizes against the ignore file's directory and both sides must
// be absolute for that to succeed.
func (wrapper patternMatcher) Match(path string, isDirectory bool) bool {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return false
	}
	return wrapper.matcher.Match(absolutePath, isDirectory)
}

type allowAll struct{}

func (allowAll) Match(string, bool) bool { return false }

// Empty returns a matcher that excludes nothing.
func Empty() Matcher {
	return allowAll{}
}

// NewFromFile loads ignore patterns from the file at ignoreFilePath. On any
// failure, including a missing file, the empty matcher is returned together
// with the error so the caller can report the problem and still proceed with
// nothing excluded.
func NewFromFile(ignoreFilePath string) (Matcher, error) {
	absoluteIgnorePath, absoluteError := filepath.Abs(ignoreFilePath)
	if absoluteError != nil {
		return Empty(), absoluteError
	}
	if _, statError := os.Stat(absoluteIgnorePath); statError != nil {
		return Empty(), statError
	}
	matcher, loadError := gitignore.NewGitIgnore(absoluteIgnorePath)
	if loadError != nil {
		return Empty(), loadError
	}
	return patternMatcher{matcher: matcher}, nil
}

var _ Matcher = patternMatcher{}
var _ Matcher = allowAll{}
