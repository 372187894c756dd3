package tree

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/projcat/projcat/internal/ignore"
	"github.com/projcat/projcat/internal/types"
)

const renderedTreeFixture = `Directory: /base/project

project
    +---readme.md
    +---src
        +---main.go
        +---util
            +---helper.go
`

// TestParseFlatList verifies that plain path lists pass through with only
// type filtering, classified by the extension heuristic.
func TestParseFlatList(testingHandle *testing.T) {
	const flatListFixture = "src/main.go\n\nsrc/pkg\nnotes.txt\n"

	testCases := []struct {
		name          string
		wantedType    string
		expectedPaths []string
	}{
		{name: "files", wantedType: types.PathTypeFiles, expectedPaths: []string{"src/main.go", "notes.txt"}},
		{name: "directories", wantedType: types.PathTypeDirectories, expectedPaths: []string{"src/pkg"}},
		{name: "both", wantedType: types.PathTypeBoth, expectedPaths: []string{"src/main.go", "src/pkg", "notes.txt"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			parsedPaths, parseError := Parse(flatListFixture, testCase.wantedType, "")
			if parseError != nil {
				subtestHandle.Fatalf("Parse failed: %v", parseError)
			}
			if !reflect.DeepEqual(parsedPaths, testCase.expectedPaths) {
				subtestHandle.Fatalf("unexpected paths: got %v want %v", parsedPaths, testCase.expectedPaths)
			}
		})
	}
}

// TestParseRenderedTree verifies path reconstruction from marker lines,
// including collapse of the root segment the rendered root line repeats.
func TestParseRenderedTree(testingHandle *testing.T) {
	parsedFiles, parseError := Parse(renderedTreeFixture, types.PathTypeFiles, "")
	if parseError != nil {
		testingHandle.Fatalf("Parse failed: %v", parseError)
	}
	expectedFiles := []string{
		filepath.Join("/base/project", "readme.md"),
		filepath.Join("/base/project", "src", "main.go"),
		filepath.Join("/base/project", "src", "util", "helper.go"),
	}
	if !reflect.DeepEqual(parsedFiles, expectedFiles) {
		testingHandle.Fatalf("unexpected files: got %v want %v", parsedFiles, expectedFiles)
	}

	parsedDirectories, parseError := Parse(renderedTreeFixture, types.PathTypeDirectories, "")
	if parseError != nil {
		testingHandle.Fatalf("Parse failed: %v", parseError)
	}
	expectedDirectories := []string{
		filepath.Join("/base/project", "src"),
		filepath.Join("/base/project", "src", "util"),
	}
	if !reflect.DeepEqual(parsedDirectories, expectedDirectories) {
		testingHandle.Fatalf("unexpected directories: got %v want %v", parsedDirectories, expectedDirectories)
	}
}

// TestParseNamePattern verifies search semantics: the pattern matches
// anywhere in a file name and never restricts directories.
func TestParseNamePattern(testingHandle *testing.T) {
	parsedPaths, parseError := Parse(renderedTreeFixture, types.PathTypeFiles, `\.go$`)
	if parseError != nil {
		testingHandle.Fatalf("Parse failed: %v", parseError)
	}
	expectedPaths := []string{
		filepath.Join("/base/project", "src", "main.go"),
		filepath.Join("/base/project", "src", "util", "helper.go"),
	}
	if !reflect.DeepEqual(parsedPaths, expectedPaths) {
		testingHandle.Fatalf("unexpected paths: got %v want %v", parsedPaths, expectedPaths)
	}

	parsedDirectories, parseError := Parse(renderedTreeFixture, types.PathTypeDirectories, `\.go$`)
	if parseError != nil {
		testingHandle.Fatalf("Parse failed: %v", parseError)
	}
	if len(parsedDirectories) != 2 {
		testingHandle.Fatalf("pattern restricted directories: got %v", parsedDirectories)
	}
}

// TestParseTreeWithoutRootLine verifies trees whose first structure line
// already carries a marker, with no bare root name to collapse.
func TestParseTreeWithoutRootLine(testingHandle *testing.T) {
	const headerOnlyFixture = "Directory: /data\n\n+---app\n    +---app.py\n"

	parsedPaths, parseError := Parse(headerOnlyFixture, types.PathTypeBoth, "")
	if parseError != nil {
		testingHandle.Fatalf("Parse failed: %v", parseError)
	}
	expectedPaths := []string{
		filepath.Join("/data", "app"),
		filepath.Join("/data", "app", "app.py"),
	}
	if !reflect.DeepEqual(parsedPaths, expectedPaths) {
		testingHandle.Fatalf("unexpected paths: got %v want %v", parsedPaths, expectedPaths)
	}
}

// TestParseMissingBaseDirectory verifies that marker text without a
// "Directory:" header is rejected.
func TestParseMissingBaseDirectory(testingHandle *testing.T) {
	_, parseError := Parse("+---orphan\n", types.PathTypeBoth, "")
	if parseError == nil {
		testingHandle.Fatal("expected an error for tree text without a base directory")
	}
	if !strings.Contains(parseError.Error(), "base directory") {
		testingHandle.Fatalf("unexpected error: %v", parseError)
	}
}

// TestParseInvalidNamePattern verifies that an uncompilable pattern is
// rejected before any line is processed.
func TestParseInvalidNamePattern(testingHandle *testing.T) {
	_, parseError := Parse(renderedTreeFixture, types.PathTypeFiles, "(")
	if parseError == nil {
		testingHandle.Fatal("expected an error for an invalid pattern")
	}
	if !strings.Contains(parseError.Error(), "invalid name pattern") {
		testingHandle.Fatalf("unexpected error: %v", parseError)
	}
}

// TestRenderParseRoundTrip verifies that parsing a rendered tree prefixed by
// its directory header reconstructs the walked paths exactly.
func TestRenderParseRoundTrip(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeTestDirectory(testingHandle, filepath.Join(rootDirectory, "sub"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.txt"), "")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "sub", "b.go"), "")

	renderer := NewRenderer(ignore.Empty())
	renderedLines, renderDiagnostics := renderer.Render(rootDirectory)
	if len(renderDiagnostics) != 0 {
		testingHandle.Fatalf("unexpected diagnostics: %v", renderDiagnostics)
	}
	treeText := fmt.Sprintf("Directory: %s\n\n", rootDirectory) + strings.Join(renderedLines, "\n") + "\n"

	parsedPaths, parseError := Parse(treeText, types.PathTypeBoth, "")
	if parseError != nil {
		testingHandle.Fatalf("Parse failed: %v", parseError)
	}
	expectedPaths := []string{
		filepath.Join(rootDirectory, "a.txt"),
		filepath.Join(rootDirectory, "sub"),
		filepath.Join(rootDirectory, "sub", "b.go"),
	}
	if !reflect.DeepEqual(parsedPaths, expectedPaths) {
		testingHandle.Fatalf("round trip mismatch: got %v want %v", parsedPaths, expectedPaths)
	}
}
