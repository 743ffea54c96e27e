// Package extract converts heterogeneous financial source documents into a
// uniform tabular RecordSet.
//
// Supported formats:
//   - .csv   — delimited text, header row + typed columns
//   - .xlsx  — spreadsheet workbook (archive/zip → xl/worksheets/sheet1.xml)
//   - .pdf   — PDF text extraction (pdfcpu, page order preserved)
//   - .docx  — Microsoft Word (archive/zip → word/document.xml)
//   - .txt   — plain text passthrough
//
// Tabular formats keep their native column structure; document formats
// collapse to a single row with one "content" column holding the full text.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillon/finreport/recordset"
)

// Format identifies a source document type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatTXT  Format = "txt"
)

// UnsupportedFormatError is returned by Detect for unrecognized extensions.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q", e.Ext)
}

type extractFunc func(path string) (*recordset.RecordSet, error)

// extractors is the closed dispatch table. Adding a format means adding an
// entry here and a constant above; nothing else switches on extensions.
var extractors = map[Format]extractFunc{
	FormatCSV:  extractCSV,
	FormatXLSX: extractXLSX,
	FormatPDF:  extractPDF,
	FormatDocx: extractDocx,
	FormatTXT:  extractTXT,
}

// formats maps file extensions to formats.
var formats = map[string]Format{
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".pdf":  FormatPDF,
	".docx": FormatDocx,
	".txt":  FormatTXT,
}

// SupportedFormats lists all supported format names.
func SupportedFormats() []string {
	return []string{
		string(FormatCSV),
		string(FormatXLSX),
		string(FormatPDF),
		string(FormatDocx),
		string(FormatTXT),
	}
}

// Config configures the extractor.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor converts source documents into RecordSets.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg, logger: cfg.Logger}
}

// Detect returns the document format based on file extension.
func (e *Extractor) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return "", &UnsupportedFormatError{Ext: ext}
	}
	return f, nil
}

// Extract parses one source document into a RecordSet. It reads the file
// once and keeps no partial results; any failure leaves no side effects.
func (e *Extractor) Extract(ctx context.Context, path string) (*recordset.RecordSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > e.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), e.cfg.MaxFileSize)
	}

	format, err := e.Detect(path)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracting document", "path", path, "format", format)

	fn := extractors[format]
	rs, err := fn(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}
	return rs, nil
}

// contentRecordSet wraps whole-document text into the single-row,
// single-column shape used for page-flow documents.
func contentRecordSet(text string) (*recordset.RecordSet, error) {
	return recordset.New(recordset.Column{
		Name:  recordset.ContentColumn,
		Cells: []recordset.Value{recordset.Text(text)},
	})
}
