package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/projcat/projcat/internal/ignore"
	"github.com/projcat/projcat/internal/selector"
	"github.com/projcat/projcat/internal/tree"
	"github.com/projcat/projcat/internal/types"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

func testSelection() selector.Result {
	return selector.Result{
		Files: []types.SelectedFile{
			{Path: "src/app.go", Content: "package app", SizeBytes: 11},
		},
		Diagnostics: []types.Diagnostic{
			{Kind: types.DiagnosticFileNotFound, Message: "File not found: gone.txt"},
		},
		Unresolved: []string{"gone.txt"},
	}
}

// TestAssembleFullReport verifies section ordering: directory header, tree
// lines, file blocks, the unresolved block, and diagnostics last.
func TestAssembleFullReport(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main")

	assembler := &Assembler{Renderer: tree.NewRenderer(ignore.Empty())}
	entries := assembler.Assemble([]string{rootDirectory}, testSelection(), Options{})
	reportText := Render(entries)

	orderedFragments := []string{
		"Directory: " + rootDirectory,
		filepath.Base(rootDirectory),
		"    " + tree.Marker + "main.go",
		"File: src/app.go",
		"```\npackage app\n```",
		"Files not found or ignored:\ngone.txt",
		"File not found: gone.txt",
	}
	searchOffset := 0
	for _, fragment := range orderedFragments {
		fragmentIndex := strings.Index(reportText[searchOffset:], fragment)
		if fragmentIndex < 0 {
			testingHandle.Fatalf("missing or out-of-order fragment %q in report:\n%s", fragment, reportText)
		}
		searchOffset += fragmentIndex + len(fragment)
	}
}

// TestAssembleSinkEchoMatchesRender verifies that the entry sink receives the
// exact text the rendered report is built from.
func TestAssembleSinkEchoMatchesRender(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main")

	var echoedText strings.Builder
	assembler := &Assembler{
		Renderer: tree.NewRenderer(ignore.Empty()),
		Sink:     func(entry types.ReportEntry) { echoedText.WriteString(EntryText(entry)) },
	}
	entries := assembler.Assemble([]string{rootDirectory}, testSelection(), Options{})

	if strings.TrimSpace(echoedText.String()) != Render(entries) {
		testingHandle.Fatalf("echoed text diverges from rendered report:\n%q\n%q", echoedText.String(), Render(entries))
	}
}

// TestAssembleDirectoryNotFound verifies that a missing configured directory
// becomes an inline diagnostic entry in place of its tree.
func TestAssembleDirectoryNotFound(testingHandle *testing.T) {
	missingDirectory := filepath.Join(testingHandle.TempDir(), "absent")

	assembler := &Assembler{Renderer: tree.NewRenderer(ignore.Empty())}
	entries := assembler.Assemble([]string{missingDirectory}, selector.Result{}, Options{})

	if len(entries) != 1 {
		testingHandle.Fatalf("unexpected entries: %v", entries)
	}
	if entries[0].Kind != types.EntryKindDiagnostic || entries[0].Text != "Directory not found: "+missingDirectory {
		testingHandle.Fatalf("unexpected entry: %+v", entries[0])
	}
}

// TestAssembleDirOnly verifies that file content sections are suppressed.
func TestAssembleDirOnly(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	assembler := &Assembler{Renderer: tree.NewRenderer(ignore.Empty())}
	entries := assembler.Assemble([]string{rootDirectory}, testSelection(), Options{DirOnly: true})

	for _, entry := range entries {
		if entry.Kind == types.EntryKindFileBlock || entry.Kind == types.EntryKindUnresolved {
			testingHandle.Fatalf("file section produced in dironly mode: %+v", entry)
		}
	}
}

// TestAssembleSkipTree verifies that tree sections are suppressed while file
// contents remain.
func TestAssembleSkipTree(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	assembler := &Assembler{Renderer: tree.NewRenderer(ignore.Empty())}
	entries := assembler.Assemble([]string{rootDirectory}, testSelection(), Options{SkipTree: true})

	var fileBlockCount int
	for _, entry := range entries {
		switch entry.Kind {
		case types.EntryKindDirectoryHeader, types.EntryKindTreeLine:
			testingHandle.Fatalf("tree section produced in skip-tree mode: %+v", entry)
		case types.EntryKindFileBlock:
			fileBlockCount++
		}
	}
	if fileBlockCount != 1 {
		testingHandle.Fatalf("unexpected file block count: got %d want 1", fileBlockCount)
	}
}
