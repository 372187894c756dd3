// Package notebook extracts executable cell source from Jupyter-style
// notebook documents so their code can be embedded in a report as plain text.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	// Extension identifies notebook documents handed to ExtractCode.
	Extension = ".ipynb"

	headerFormat          = "# Generated from %s\n\n"
	extractionErrorFormat = "# Error extracting notebook code: %v\n"
	codeCellType          = "code"
)

type document struct {
	Cells []cell `json:"cells"`
}

type cell struct {
	CellType string     `json:"cell_type"`
	Source   cellSource `json:"source"`
}

// cellSource accepts both notebook source encodings: a single string or a
// list of line strings.
type cellSource string

func (source *cellSource) UnmarshalJSON(data []byte) error {
	var singleValue string
	if unmarshalError := json.Unmarshal(data, &singleValue); unmarshalError == nil {
		*source = cellSource(singleValue)
		return nil
	}
	var lineValues []string
	if unmarshalError := json.Unmarshal(data, &lineValues); unmarshalError != nil {
		return unmarshalError
	}
	*source = cellSource(strings.Join(lineValues, ""))
	return nil
}

// ExtractCode returns the concatenated source of every non-empty code cell in
// the notebook at notebookPath, prefixed by a header comment naming the
// source file. Markdown and empty cells are skipped. ExtractCode never fails:
// read or parse problems degrade to an inline error description in the
// returned text.
func ExtractCode(notebookPath string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(headerFormat, notebookPath))

	notebookBytes, readError := os.ReadFile(notebookPath)
	if readError != nil {
		builder.WriteString(fmt.Sprintf(extractionErrorFormat, readError))
		return builder.String()
	}

	var parsedDocument document
	if unmarshalError := json.Unmarshal(notebookBytes, &parsedDocument); unmarshalError != nil {
		builder.WriteString(fmt.Sprintf(extractionErrorFormat, unmarshalError))
		return builder.String()
	}

	for _, notebookCell := range parsedDocument.Cells {
		if notebookCell.CellType != codeCellType {
			continue
		}
		cellText := string(notebookCell.Source)
		if strings.TrimSpace(cellText) == "" {
			continue
		}
		builder.WriteString(cellText)
		if !strings.HasSuffix(cellText, "\n") {
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	return builder.String()
}
