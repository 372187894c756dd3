// Package report assembles tree renderings, file contents, and diagnostics
// into one ordered entry stream and its combined text form.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/projcat/projcat/internal/selector"
	"github.com/projcat/projcat/internal/tree"
	"github.com/projcat/projcat/internal/types"
	"github.com/projcat/projcat/internal/utils"
)

const (
	directoryHeaderFormat   = "\nDirectory: %s\n"
	directoryNotFoundFormat = "Directory not found: %s"
	fileHeaderFormat        = "\nFile: %s\n"
	contentFence            = "```"
	unresolvedHeader        = "Files not found or ignored:"
)

// Options controls which report sections are produced.
type Options struct {
	// DirOnly limits the report to directory trees; no file contents.
	DirOnly bool
	// SkipTree omits the directory trees; only file contents appear.
	SkipTree bool
}

// Assembler produces the report entry sequence. Sink, when set, receives
// every entry the moment it is appended, letting a presentation layer echo
// the report incrementally; the echoed text and the rendered report are
// identical up to trailing-whitespace trimming.
type Assembler struct {
	Renderer *tree.Renderer
	Sink     func(types.ReportEntry)
}

// Assemble produces the ordered entries for one run: per-directory headers
// and tree lines (or an inline not-found diagnostic), file blocks in
// selection order, the collective unresolved-files block, and every remaining
// diagnostic. The result is deterministic for a fixed filesystem snapshot and
// configuration.
func (assembler *Assembler) Assemble(directories []string, selection selector.Result, options Options) []types.ReportEntry {
	var entries []types.ReportEntry
	emit := func(entry types.ReportEntry) {
		entries = append(entries, entry)
		if assembler.Sink != nil {
			assembler.Sink(entry)
		}
	}

	var pendingDiagnostics []types.Diagnostic

	if !options.SkipTree {
		for _, configuredDirectory := range directories {
			directoryPath := filepath.Clean(utils.NormalizePath(configuredDirectory))
			information, statError := os.Stat(directoryPath)
			if statError != nil || !information.IsDir() {
				emit(types.ReportEntry{
					Kind: types.EntryKindDiagnostic,
					Text: fmt.Sprintf(directoryNotFoundFormat, directoryPath),
				})
				continue
			}
			emit(types.ReportEntry{Kind: types.EntryKindDirectoryHeader, Path: directoryPath})
			treeLines, treeDiagnostics := assembler.Renderer.Render(directoryPath)
			for _, treeLine := range treeLines {
				emit(types.ReportEntry{Kind: types.EntryKindTreeLine, Text: treeLine})
			}
			pendingDiagnostics = append(pendingDiagnostics, treeDiagnostics...)
		}
	}

	if !options.DirOnly {
		for _, selectedFile := range selection.Files {
			emit(types.ReportEntry{
				Kind:    types.EntryKindFileBlock,
				Path:    selectedFile.Path,
				Content: selectedFile.Content,
			})
		}
		if len(selection.Unresolved) > 0 {
			emit(types.ReportEntry{Kind: types.EntryKindUnresolved, Paths: selection.Unresolved})
		}
	}

	pendingDiagnostics = append(pendingDiagnostics, selection.Diagnostics...)
	for _, diagnostic := range pendingDiagnostics {
		emit(types.ReportEntry{Kind: types.EntryKindDiagnostic, Text: diagnostic.Message})
	}

	return entries
}

// EntryText renders one entry as the exact text segment it contributes to the
// report.
func EntryText(entry types.ReportEntry) string {
	switch entry.Kind {
	case types.EntryKindDirectoryHeader:
		return fmt.Sprintf(directoryHeaderFormat, entry.Path)
	case types.EntryKindTreeLine:
		return entry.Text + "\n"
	case types.EntryKindFileBlock:
		return fmt.Sprintf(fileHeaderFormat, entry.Path) + contentFence + "\n" + entry.Content + "\n" + contentFence + "\n"
	case types.EntryKindUnresolved:
		return "\n" + unresolvedHeader + "\n" + strings.Join(entry.Paths, "\n") + "\n"
	case types.EntryKindDiagnostic:
		return "\n" + entry.Text + "\n"
	default:
		return ""
	}
}

// Render concatenates every entry's text and trims surrounding whitespace,
// producing the final combined report.
func Render(entries []types.ReportEntry) string {
	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(EntryText(entry))
	}
	return strings.TrimSpace(builder.String())
}
