// Package types defines every cross-package data structure used by the projcat CLI.
package types

// Path classifications used by the tree parser.
const (
	PathTypeFiles       = "files"
	PathTypeDirectories = "dirs"
	PathTypeBoth        = "both"
)

// Report entry kinds emitted by the assembler.
const (
	EntryKindDirectoryHeader = "directory"
	EntryKindTreeLine        = "tree"
	EntryKindFileBlock       = "file"
	EntryKindDiagnostic      = "diagnostic"
	EntryKindUnresolved      = "unresolved"
)

// Diagnostic kinds describing non-fatal problems surfaced in the report.
const (
	DiagnosticBaseDirNotFound = "base_directory_not_found"
	DiagnosticFileNotFound    = "file_not_found"
	DiagnosticFileReadError   = "file_read_error"
	DiagnosticExcluded        = "excluded_by_ignore"
	DiagnosticInvalidPattern  = "invalid_pattern"
	DiagnosticDirectoryAccess = "directory_access_error"
)

// Diagnostic records a missing, excluded, or invalid configuration element.
// Diagnostics never abort a run; they are collected and rendered at the end
// of the report.
type Diagnostic struct {
	Kind    string
	Message string
}

// RegexRule is a pattern-based directory search: every file whose base name
// matches Pattern under Dir is selected. Subdirs controls whether the search
// descends into nested directories.
type RegexRule struct {
	Dir     string
	Pattern string
	Subdirs bool
}

// SelectedFile is one file chosen for inclusion together with its decoded
// content and size on disk.
type SelectedFile struct {
	Path      string
	Content   string
	SizeBytes int64
}

// ReportEntry is one segment of the generated report. Exactly one of the
// payload fields is meaningful depending on Kind: Path for directory headers
// and file blocks, Text for tree lines and diagnostics, Content for file
// blocks, Paths for the collective unresolved-files block.
type ReportEntry struct {
	Kind    string
	Path    string
	Text    string
	Content string
	Paths   []string
}
