package tree

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/projcat/projcat/internal/types"
	"github.com/projcat/projcat/internal/utils"
)

const (
	directoryHeaderPrefix = "Directory:"

	errorInvalidPatternFormat = "invalid name pattern %q: %w"
)

var (
	errMissingBaseDirectory  = errors.New("cannot find base directory in the input text")
	errMissingFirstDirectory = errors.New("cannot find the first directory in the structure")
)

// Parse reconstructs the full paths encoded by previously rendered tree text.
// Input mode is auto-detected: text carrying a "Directory: <base>" header or
// marker lines is parsed as a rendered tree; anything else is treated as a
// flat newline-separated path list. wantedType selects files, dirs, or both;
// namePattern, when non-empty, is a regular expression applied to file names
// with search semantics (a match anywhere in the name), and never restricts
// directories. Every returned path is normalized for drive-letter form.
func Parse(treeText string, wantedType string, namePattern string) ([]string, error) {
	if !isTreeFormat(treeText) {
		return parseFlatList(treeText, wantedType), nil
	}
	return parseRenderedTree(treeText, wantedType, namePattern)
}

func isTreeFormat(treeText string) bool {
	return strings.HasPrefix(strings.TrimSpace(treeText), directoryHeaderPrefix) ||
		strings.Contains(treeText, Marker)
}

// parseFlatList treats every non-empty line as an already-complete path,
// classified as file or directory purely by the presence of a dot in the last
// segment.
func parseFlatList(listText string, wantedType string) []string {
	var paths []string
	for _, rawLine := range strings.Split(listText, "\n") {
		candidatePath := strings.TrimSpace(rawLine)
		if candidatePath == "" {
			continue
		}
		candidatePath = utils.NormalizePath(candidatePath)
		if !typePermits(wantedType, nameLooksLikeFile(lastPathSegment(candidatePath))) {
			continue
		}
		paths = append(paths, candidatePath)
	}
	return paths
}

func parseRenderedTree(treeText string, wantedType string, namePattern string) ([]string, error) {
	var compiledPattern *regexp.Regexp
	if namePattern != "" {
		var compileError error
		compiledPattern, compileError = regexp.Compile(namePattern)
		if compileError != nil {
			return nil, fmt.Errorf(errorInvalidPatternFormat, namePattern, compileError)
		}
	}

	lines := strings.Split(treeText, "\n")

	baseDirectory, baseFound := findBaseDirectory(lines)
	if !baseFound {
		return nil, errMissingBaseDirectory
	}
	rootName, firstDirectory, firstFound := findFirstDirectory(lines)
	if !firstFound {
		return nil, errMissingFirstDirectory
	}

	// Ancestor names on the current traversal path. When the rendered text
	// carries an unmarked root line, it seeds the stack so marker depths
	// resolve against it; the resulting duplicated root segment is collapsed
	// afterwards.
	var ancestorStack []string
	if rootName != "" {
		ancestorStack = append(ancestorStack, rootName)
	}

	var paths []string
	for _, line := range lines {
		if strings.HasPrefix(line, directoryHeaderPrefix) || strings.TrimSpace(line) == "" {
			continue
		}
		markerColumn := strings.Index(line, Marker)
		if markerColumn < 0 {
			continue
		}
		depth := markerColumn / len(indentUnit)
		if len(ancestorStack) > depth {
			ancestorStack = ancestorStack[:depth]
		}
		name := strings.TrimSpace(line[markerColumn+len(Marker):])
		ancestorStack = append(ancestorStack, name)

		isFile := nameLooksLikeFile(name)
		if !typePermits(wantedType, isFile) {
			continue
		}
		if isFile && compiledPattern != nil && !compiledPattern.MatchString(name) {
			continue
		}

		segments := append([]string{baseDirectory}, ancestorStack...)
		paths = append(paths, filepath.Join(segments...))
	}

	paths = collapseDuplicateFirstSegment(paths, firstDirectory)

	for index, path := range paths {
		paths[index] = utils.NormalizePath(path)
	}
	return paths, nil
}

// findBaseDirectory extracts the path following the first "Directory:" header.
func findBaseDirectory(lines []string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, directoryHeaderPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, directoryHeaderPrefix)), true
		}
	}
	return "", false
}

// findFirstDirectory locates the root-level directory name: the unmarked line
// between the header and the first marker line when the renderer emitted one,
// otherwise the first marker line's name. The first return value is the
// unmarked root name, empty when absent.
func findFirstDirectory(lines []string) (rootName string, firstDirectory string, found bool) {
	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(line, directoryHeaderPrefix) {
			continue
		}
		markerColumn := strings.Index(line, Marker)
		if markerColumn < 0 {
			if rootName == "" {
				rootName = trimmedLine
			}
			continue
		}
		name := strings.TrimSpace(line[markerColumn+len(Marker):])
		if rootName != "" {
			return rootName, rootName, true
		}
		return "", name, true
	}
	return "", "", false
}

// collapseDuplicateFirstSegment removes the second occurrence of the root
// directory name from paths where it appears twice. This is a compatibility
// correction for tree text whose root line repeats the base directory's final
// segment; without it every reconstructed path would carry that segment
// twice.
func collapseDuplicateFirstSegment(paths []string, firstDirectory string) []string {
	separator := string(filepath.Separator)
	fixedPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		segments := strings.Split(path, separator)
		occurrences := 0
		duplicateIndex := -1
		for segmentIndex, segment := range segments {
			if segment != firstDirectory {
				continue
			}
			occurrences++
			if occurrences == 2 {
				duplicateIndex = segmentIndex
				break
			}
		}
		if duplicateIndex < 0 {
			fixedPaths = append(fixedPaths, path)
			continue
		}
		collapsed := append(append([]string{}, segments[:duplicateIndex]...), segments[duplicateIndex+1:]...)
		fixedPaths = append(fixedPaths, strings.Join(collapsed, separator))
	}
	return fixedPaths
}

func typePermits(wantedType string, isFile bool) bool {
	switch wantedType {
	case types.PathTypeFiles:
		return isFile
	case types.PathTypeDirectories:
		return !isFile
	default:
		return true
	}
}

// nameLooksLikeFile classifies a name by the extension heuristic: a dot in
// the final path segment means file.
func nameLooksLikeFile(name string) bool {
	return strings.Contains(name, ".")
}

// lastPathSegment returns the final segment of a path, accepting both native
// and backslash separators so Windows-style paths classify correctly on any
// host.
func lastPathSegment(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if slashIndex := strings.LastIndex(normalized, "/"); slashIndex >= 0 {
		return normalized[slashIndex+1:]
	}
	return normalized
}
