// Package selector resolves the configured selection mechanisms into one
// deduplicated, ordered sequence of files to include in the report.
package selector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/projcat/projcat/internal/ignore"
	"github.com/projcat/projcat/internal/notebook"
	"github.com/projcat/projcat/internal/types"
	"github.com/projcat/projcat/internal/utils"
)

const (
	messageFileNotFound        = "File not found: %s"
	messagePathIsDirectory     = "Path is a directory, not a file: %s"
	messageFileExcluded        = "File excluded by ignore rules: %s"
	messageInvalidPattern      = "Invalid regex pattern %q: %v"
	messageBaseDirNotFound     = "Directory not found for pattern search: %s"
	messageBaseDirNotDirectory = "Pattern search path is not a directory: %s"
	messageAccessError         = "Cannot access %s: %v"
	messageFileReadError       = "Cannot read file %s: %v"
)

// Selector chooses files for inclusion by resolving explicit file paths and
// pattern-based directory searches against an ignore matcher. The zero value
// is not usable; construct with New.
type Selector struct {
	ignoreMatcher ignore.Matcher
}

// Result carries the ordered selection together with everything that went
// wrong along the way. Unresolved lists every originally requested file that
// never made it into the selection, reported collectively at the end of the
// report.
type Result struct {
	Files       []types.SelectedFile
	Diagnostics []types.Diagnostic
	Unresolved  []string
}

// New constructs a Selector using the provided matcher.
func New(ignoreMatcher ignore.Matcher) *Selector {
	return &Selector{ignoreMatcher: ignoreMatcher}
}

// Select resolves the explicit file list and then every pattern rule in
// declaration order. A file reachable through several mechanisms is included
// exactly once: the first mechanism that reaches it wins, later matches are
// skipped silently. Content is read eagerly, one file at a time.
func (fileSelector *Selector) Select(explicitFiles []string, rules []types.RegexRule) Result {
	var result Result
	printedPaths := make(map[string]struct{})

	for _, requestedPath := range explicitFiles {
		fileSelector.selectExplicitFile(requestedPath, printedPaths, &result)
	}
	for _, rule := range rules {
		fileSelector.selectByPattern(rule, printedPaths, &result)
	}

	for _, requestedPath := range explicitFiles {
		if _, printed := printedPaths[canonicalKey(normalizeRequestPath(requestedPath))]; !printed {
			result.Unresolved = append(result.Unresolved, requestedPath)
		}
	}

	return result
}

func (fileSelector *Selector) selectExplicitFile(requestedPath string, printedPaths map[string]struct{}, result *Result) {
	normalizedPath := normalizeRequestPath(requestedPath)

	information, statError := os.Stat(normalizedPath)
	if statError != nil {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticFileNotFound,
			Message: fmt.Sprintf(messageFileNotFound, normalizedPath),
		})
		return
	}
	if information.IsDir() {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticFileNotFound,
			Message: fmt.Sprintf(messagePathIsDirectory, normalizedPath),
		})
		return
	}

	if fileSelector.ignoreMatcher.Match(normalizedPath, false) {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticExcluded,
			Message: fmt.Sprintf(messageFileExcluded, normalizedPath),
		})
		return
	}

	canonical := canonicalKey(normalizedPath)
	if _, printed := printedPaths[canonical]; printed {
		return
	}
	printedPaths[canonical] = struct{}{}
	if !fileSelector.appendFileContent(normalizedPath, information.Size(), result) {
		delete(printedPaths, canonical)
	}
}

func (fileSelector *Selector) selectByPattern(rule types.RegexRule, printedPaths map[string]struct{}, result *Result) {
	// An entry without a search directory or pattern selects nothing. Skipped
	// without a diagnostic: cleaning an empty dir would otherwise resolve to
	// the working directory and an empty pattern matches every name.
	if rule.Dir == "" || rule.Pattern == "" {
		return
	}

	compiledPattern, compileError := regexp.Compile(rule.Pattern)
	if compileError != nil {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticInvalidPattern,
			Message: fmt.Sprintf(messageInvalidPattern, rule.Pattern, compileError),
		})
		return
	}

	baseDirectory := normalizeRequestPath(rule.Dir)
	information, statError := os.Stat(baseDirectory)
	if statError != nil {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticBaseDirNotFound,
			Message: fmt.Sprintf(messageBaseDirNotFound, baseDirectory),
		})
		return
	}
	if !information.IsDir() {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticBaseDirNotFound,
			Message: fmt.Sprintf(messageBaseDirNotDirectory, baseDirectory),
		})
		return
	}

	if rule.Subdirs {
		fileSelector.searchRecursive(baseDirectory, compiledPattern, printedPaths, result)
		return
	}
	fileSelector.searchImmediate(baseDirectory, compiledPattern, printedPaths, result)
}

// searchRecursive walks baseDirectory depth-first, pruning excluded
// subdirectories, and tests every surviving file's base name against the
// pattern with search semantics.
func (fileSelector *Selector) searchRecursive(baseDirectory string, compiledPattern *regexp.Regexp, printedPaths map[string]struct{}, result *Result) {
	walkError := filepath.WalkDir(baseDirectory, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
				Kind:    types.DiagnosticDirectoryAccess,
				Message: fmt.Sprintf(messageAccessError, walkedPath, accessError),
			})
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == baseDirectory {
			return nil
		}
		if fileSelector.ignoreMatcher.Match(walkedPath, directoryEntry.IsDir()) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !compiledPattern.MatchString(directoryEntry.Name()) {
			return nil
		}
		fileSelector.includePatternMatch(walkedPath, directoryEntry, printedPaths, result)
		return nil
	})
	if walkError != nil {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticDirectoryAccess,
			Message: fmt.Sprintf(messageAccessError, baseDirectory, walkError),
		})
	}
}

// searchImmediate tests only the base directory's own files.
func (fileSelector *Selector) searchImmediate(baseDirectory string, compiledPattern *regexp.Regexp, printedPaths map[string]struct{}, result *Result) {
	directoryEntries, readError := os.ReadDir(baseDirectory)
	if readError != nil {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticDirectoryAccess,
			Message: fmt.Sprintf(messageAccessError, baseDirectory, readError),
		})
		return
	}
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		entryPath := filepath.Join(baseDirectory, directoryEntry.Name())
		if fileSelector.ignoreMatcher.Match(entryPath, false) {
			continue
		}
		if !compiledPattern.MatchString(directoryEntry.Name()) {
			continue
		}
		fileSelector.includePatternMatch(entryPath, directoryEntry, printedPaths, result)
	}
}

// includePatternMatch records the path in the printed set before any content
// is read, guaranteeing at-most-once inclusion even when a later rule matches
// the same canonical path.
func (fileSelector *Selector) includePatternMatch(matchedPath string, directoryEntry fs.DirEntry, printedPaths map[string]struct{}, result *Result) {
	canonical := canonicalKey(matchedPath)
	if _, printed := printedPaths[canonical]; printed {
		return
	}
	printedPaths[canonical] = struct{}{}

	var sizeBytes int64
	if information, informationError := directoryEntry.Info(); informationError == nil {
		sizeBytes = information.Size()
	}
	if !fileSelector.appendFileContent(matchedPath, sizeBytes, result) {
		delete(printedPaths, canonical)
	}
}

// appendFileContent reads and decodes one file and appends it to the
// selection, reporting whether the file made it in. Notebook documents are
// delegated to the notebook extractor, which embeds any extraction failure as
// inline text instead of failing.
func (fileSelector *Selector) appendFileContent(filePath string, sizeBytes int64, result *Result) bool {
	if strings.EqualFold(filepath.Ext(filePath), notebook.Extension) {
		result.Files = append(result.Files, types.SelectedFile{
			Path:      filePath,
			Content:   notebook.ExtractCode(filePath),
			SizeBytes: sizeBytes,
		})
		return true
	}

	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticFileReadError,
			Message: fmt.Sprintf(messageFileReadError, filePath, readError),
		})
		return false
	}

	result.Files = append(result.Files, types.SelectedFile{
		Path:      filePath,
		Content:   decodeText(fileBytes),
		SizeBytes: sizeBytes,
	})
	return true
}

// decodeText decodes file bytes as UTF-8, falling back to Latin-1 for
// anything invalid. The fallback maps every byte to a rune, so decoding
// cannot fail.
func decodeText(fileBytes []byte) string {
	if utf8.Valid(fileBytes) {
		return string(fileBytes)
	}
	decodedBytes, decodeError := charmap.ISO8859_1.NewDecoder().Bytes(fileBytes)
	if decodeError != nil {
		return string(fileBytes)
	}
	return string(decodedBytes)
}

// normalizeRequestPath cleans a configured path and applies drive-letter
// normalization.
func normalizeRequestPath(requestedPath string) string {
	return filepath.Clean(utils.NormalizePath(requestedPath))
}

// canonicalKey resolves a path to its absolute cleaned form for printed-set
// membership, so the same file reached through different spellings
// deduplicates.
func canonicalKey(path string) string {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(absolutePath)
}
