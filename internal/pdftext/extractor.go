// Package pdftext turns a statement PDF into per-page text. Extraction shells
// out to pdftotext in layout mode because statement columns only survive when
// the physical layout is preserved.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"jramos/stmt2sheet/internal/parsererror"
)

// PageExtractor yields the text of each page of a PDF, in order.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// PdftotextExtractor extracts pages with the poppler pdftotext binary.
type PdftotextExtractor struct {
	// Binary overrides the executable name, for tests and exotic installs.
	Binary string
}

// NewExtractor returns the default pdftotext-backed extractor.
func NewExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{Binary: "pdftotext"}
}

// ExtractPages runs pdftotext -layout and splits the output on form feeds,
// which pdftotext emits between pages.
func (e *PdftotextExtractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &parsererror.ValidationError{FilePath: path, Reason: "file not accessible"}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, "-layout", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &parsererror.DataExtractionError{
			FilePath:       path,
			FieldName:      "pages",
			RawDataSnippet: strings.TrimSpace(stderr.String()),
			Reason:         fmt.Sprintf("pdftotext failed: %v", err),
		}
	}

	pages := strings.Split(stdout.String(), "\f")
	// pdftotext terminates the last page with a form feed too.
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}

	if len(pages) == 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            "no extractable text",
		}
	}

	return pages, nil
}

// MockPageExtractor serves canned pages keyed by path. Used by tests and by
// the converter tests to avoid a poppler dependency.
type MockPageExtractor struct {
	Pages map[string][]string
	Err   error
}

func (m *MockPageExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	pages, ok := m.Pages[path]
	if !ok {
		return nil, &parsererror.ValidationError{FilePath: path, Reason: "no such document"}
	}
	return pages, nil
}
