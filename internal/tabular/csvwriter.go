package tabular

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVWriter streams one sheet into a <sheet>.csv file, or through xz into
// <sheet>.csv.xz.
type CSVWriter struct {
	out      io.WriteCloser
	path     string
	buffer   *bufio.Writer
	writer   *csv.Writer
	rowCount int64
	closed   bool
}

// CSVWriterConfig holds configuration for creating a CSV writer
type CSVWriterConfig struct {
	// Directory where the file will be created
	Dir string

	// Sheet name, used as the file name without extension
	Sheet  string
	Header []string

	// Buffer size in bytes (default: 64KB)
	BufferSize int

	// Pipe through xz (creates .csv.xz files)
	Compress bool

	// XZ compression preset 0-9 (default: 6)
	XZPreset int
}

// NewCSVWriter creates the output file and writes the header row.
func NewCSVWriter(ctx context.Context, cfg CSVWriterConfig) (*CSVWriter, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	var out io.WriteCloser
	var path string
	if cfg.Compress {
		xzw, err := NewXZWriter(ctx, cfg.Dir, cfg.Sheet, cfg.XZPreset)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		out, path = xzw, xzw.Path()
	} else {
		path = filepath.Join(cfg.Dir, cfg.Sheet+".csv")
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", path, err)
		}
		out = file
	}

	buffer := bufio.NewWriterSize(out, bufSize)
	w := &CSVWriter{
		out:    out,
		path:   path,
		buffer: buffer,
		writer: csv.NewWriter(buffer),
	}

	if len(cfg.Header) > 0 {
		if err := w.writer.Write(cfg.Header); err != nil {
			out.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return w, nil
}

// WriteRows writes data rows.
func (w *CSVWriter) WriteRows(rows [][]string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	for _, row := range rows {
		if err := w.writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		w.rowCount++
	}
	return nil
}

// Close flushes remaining data and closes the file.
func (w *CSVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.out.Close()
		return fmt.Errorf("csv flush error: %w", err)
	}
	if err := w.buffer.Flush(); err != nil {
		w.out.Close()
		return fmt.Errorf("buffer flush error: %w", err)
	}
	return w.out.Close()
}

// RowCount returns the number of data rows written (excludes header).
func (w *CSVWriter) RowCount() int64 {
	return w.rowCount
}

// Path returns the full path to the output file (.csv or .csv.xz)
func (w *CSVWriter) Path() string {
	return w.path
}
