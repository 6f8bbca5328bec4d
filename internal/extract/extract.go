// Package extract pulls plain narration text out of input documents.
// PDF extraction shells out to pdftotext, trying a layout-aware pass
// first and falling back to raw page order when the result looks too
// thin to be real book text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/book-expert/logger"

	"github.com/book-expert/audiobook-service/internal/core"
)

// Extraction settings.
const (
	// pdfBinary is the poppler text extraction tool.
	pdfBinary = "pdftotext"

	// minUsefulText is the threshold below which a layout-aware pass
	// is considered to have failed and the raw pass is tried instead.
	minUsefulText = 100
)

// Log message formats.
const (
	msgLayoutPassThin = "Layout extraction of %s produced only %d characters, retrying in raw mode"
	msgExtracted      = "Extracted %d characters from %s"
)

// Static errors.
var (
	ErrUnsupportedInput = errors.New("unsupported input file type")
	ErrNoTextExtracted  = errors.New("no text could be extracted")
)

// PDFExtractor extracts text from PDF documents via pdftotext.
type PDFExtractor struct {
	binary string
	log    *logger.Logger
}

// NewPDFExtractor builds a PDF extractor using the default binary.
func NewPDFExtractor(log *logger.Logger) *PDFExtractor {
	return &PDFExtractor{
		binary: pdfBinary,
		log:    log,
	}
}

// Extract implements core.TextExtractor for PDF files.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	extracted, err := e.runPass(ctx, path, "-layout")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrExtraction, path, err)
	}

	if len(strings.TrimSpace(extracted)) < minUsefulText {
		e.log.Warn(msgLayoutPassThin, path, len(strings.TrimSpace(extracted)))

		raw, rawErr := e.runPass(ctx, path, "-raw")
		if rawErr == nil && len(strings.TrimSpace(raw)) > len(strings.TrimSpace(extracted)) {
			extracted = raw
		}
	}

	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		return "", fmt.Errorf("%w: %s: %w", core.ErrExtraction, path, ErrNoTextExtracted)
	}

	e.log.Info(msgExtracted, len(extracted), path)

	return extracted, nil
}

func (e *PDFExtractor) runPass(ctx context.Context, path, mode string) (string, error) {
	args := []string{mode, "-enc", "UTF-8", path, "-"}

	// #nosec G204 - binary is a fixed constant, path comes from the operator.
	cmd := exec.CommandContext(ctx, e.binary, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", e.binary, err, stderr.String())
	}

	return stdout.String(), nil
}

// FileExtractor reads plain text files as-is.
type FileExtractor struct{}

// NewFileExtractor builds a plain text extractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract implements core.TextExtractor for plain text files.
func (e *FileExtractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator.
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrExtraction, path, err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("%w: %s: %w", core.ErrExtraction, path, ErrNoTextExtracted)
	}

	return content, nil
}

// ForPath picks an extractor by file extension.
func ForPath(path string, log *logger.Logger) (core.TextExtractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFExtractor(log), nil
	case ".txt", ".text", ".md":
		return NewFileExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: %s: %w", core.ErrExtraction, path, ErrUnsupportedInput)
	}
}
