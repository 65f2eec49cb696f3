// Package output renders extraction results for the formats the CLI
// exposes. It is a thin consumer of the core's results; nothing in the
// core depends on it.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// Format selects a rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatCSV, FormatMarkdown:
		return Format(name), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Writer renders results and writes them through an afero filesystem so
// tests run against an in-memory one.
type Writer struct {
	fs afero.Fs
}

// NewWriter returns a Writer backed by fs; nil means the OS filesystem.
func NewWriter(fs afero.Fs) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs}
}

// RenderMerged renders a recursive run's result.
func (w *Writer) RenderMerged(result *models.MergedResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return renderRulesCSV(result.Container.Rules)
	case FormatMarkdown:
		return renderMergedMarkdown(result), nil
	default:
		return json.MarshalIndent(result, "", "  ")
	}
}

// RenderExtraction renders a single-script result.
func (w *Writer) RenderExtraction(result *models.ExtractionResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return renderRulesCSV(result.Container.Rules)
	case FormatMarkdown:
		return renderExtractionMarkdown(result), nil
	default:
		return json.MarshalIndent(result, "", "  ")
	}
}

// WriteFile writes rendered output to path.
func (w *Writer) WriteFile(path string, data []byte) error {
	return afero.WriteFile(w.fs, path, data, 0644)
}
