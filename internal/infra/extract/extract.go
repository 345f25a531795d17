// Package extract turns ingested asset bytes into analyzable plain text.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extractor converts raw asset bytes into text suitable for semantic
// analysis. typeTag is the upper-cased file extension.
type Extractor interface {
	Extract(name, typeTag string, data []byte) (string, error)
}

// Native handles formats that are recoverable without external tooling:
// plain text and source files pass through, notebooks have their code cells
// joined. Binary office formats and PDFs report a typed failure so the
// pipeline can substitute a placeholder instead of aborting.
type Native struct{}

func NewNative() *Native { return &Native{} }

func (n *Native) Extract(name, typeTag string, data []byte) (string, error) {
	switch typeTag {
	case "IPYNB":
		return notebookCells(data)
	case "PDF":
		return "", fmt.Errorf("extract %s: embedded text layer unavailable, OCR pass required", name)
	case "DOCX", "XLSX":
		return "", fmt.Errorf("extract %s: binary container parsing unavailable", name)
	default:
		return string(data), nil
	}
}

// notebookCells pulls source out of every code cell in a Jupyter notebook.
func notebookCells(data []byte) (string, error) {
	var nb struct {
		Cells []struct {
			CellType string   `json:"cell_type"`
			Source   []string `json:"source"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(data, &nb); err != nil {
		return "", fmt.Errorf("extract notebook: %w", err)
	}
	var cells []string
	for _, c := range nb.Cells {
		if c.CellType != "code" {
			continue
		}
		cells = append(cells, strings.Join(c.Source, ""))
	}
	return strings.Join(cells, "\n\n# CELL SEPARATOR \n\n"), nil
}
