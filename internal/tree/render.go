// Package tree renders a directory hierarchy as indented marker lines and
// parses such text back into full paths (the inverse transform).
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/projcat/projcat/internal/ignore"
	"github.com/projcat/projcat/internal/types"
)

const (
	// Marker prefixes every directory and file line below the root.
	Marker = "+---"
	// indentUnit is one level of indentation.
	indentUnit = "    "

	accessErrorFormat = "Cannot read directory %s: %v"
)

// Renderer walks one directory depth-first and produces the indented line
// representation of its hierarchy, pruning everything the matcher excludes.
type Renderer struct {
	Ignore ignore.Matcher
}

// NewRenderer constructs a Renderer using the provided matcher.
func NewRenderer(matcher ignore.Matcher) *Renderer {
	return &Renderer{Ignore: matcher}
}

// Render walks rootDirectoryPath top-down and returns one line per surviving
// directory and file. The root appears as a bare name at depth zero; every
// other directory is indented by 4*depth with the marker prefix, and files sit
// one level below their directory. Entries are visited in name order so output
// is deterministic for a fixed filesystem snapshot. Excluded directories are
// pruned whole: their descendants are never visited. Symbolic links are not
// descended, so link cycles cannot hang the walk. Unreadable directories
// surface as diagnostics and the walk continues.
//
// Callers must verify rootDirectoryPath exists before rendering.
func (renderer *Renderer) Render(rootDirectoryPath string) ([]string, []types.Diagnostic) {
	var lines []string
	var diagnostics []types.Diagnostic
	renderer.renderDirectory(rootDirectoryPath, 0, &lines, &diagnostics)
	return lines, diagnostics
}

func (renderer *Renderer) renderDirectory(currentDirectoryPath string, depth int, lines *[]string, diagnostics *[]types.Diagnostic) {
	indent := strings.Repeat(indentUnit, depth)
	if depth == 0 {
		*lines = append(*lines, indent+filepath.Base(currentDirectoryPath))
	} else {
		*lines = append(*lines, indent+Marker+filepath.Base(currentDirectoryPath))
	}

	directoryEntries, readError := os.ReadDir(currentDirectoryPath)
	if readError != nil {
		*diagnostics = append(*diagnostics, types.Diagnostic{
			Kind:    types.DiagnosticDirectoryAccess,
			Message: fmt.Sprintf(accessErrorFormat, currentDirectoryPath, readError),
		})
		return
	}

	childIndent := strings.Repeat(indentUnit, depth+1)
	var subdirectories []string
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		if renderer.Ignore.Match(childPath, directoryEntry.IsDir()) {
			continue
		}
		if directoryEntry.IsDir() {
			subdirectories = append(subdirectories, childPath)
			continue
		}
		*lines = append(*lines, childIndent+Marker+directoryEntry.Name())
	}

	for _, subdirectoryPath := range subdirectories {
		renderer.renderDirectory(subdirectoryPath, depth+1, lines, diagnostics)
	}
}
