package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CSVDir stores each sheet as <sheet>.csv, or <sheet>.csv.xz when Compress is
// set, inside Dir. Reads accept either form, preferring plain CSV.
type CSVDir struct {
	Dir      string
	Compress bool
	XZPreset int
}

// NewCSVDir creates a CSV directory backend
func NewCSVDir(dir string, compress bool) *CSVDir {
	return &CSVDir{Dir: dir, Compress: compress, XZPreset: 6}
}

// WriteTable implements Writer.
func (d *CSVDir) WriteTable(ctx context.Context, t *Table) error {
	w, err := NewCSVWriter(ctx, CSVWriterConfig{
		Dir:      d.Dir,
		Sheet:    t.Name,
		Header:   t.Header,
		Compress: d.Compress,
		XZPreset: d.XZPreset,
	})
	if err != nil {
		return fmt.Errorf("sheet %s: %w", t.Name, err)
	}
	if err := w.WriteRows(t.Rows); err != nil {
		w.Close()
		return fmt.Errorf("sheet %s: %w", t.Name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("sheet %s: %w", t.Name, err)
	}

	// Drop a stale copy in the other form so reads see this one
	stale := filepath.Join(d.Dir, t.Name+".csv")
	if !d.Compress {
		stale += ".xz"
	}
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("sheet %s: %w", t.Name, err)
	}
	return nil
}

// ReadTable implements Reader.
func (d *CSVDir) ReadTable(ctx context.Context, name string) (*Table, error) {
	plain := filepath.Join(d.Dir, name+".csv")
	f, err := os.Open(plain)
	if err == nil {
		defer f.Close()
		return readCSV(name, f)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to open %s: %w", plain, err)
	}

	compressed := plain + ".xz"
	if _, err := os.Stat(compressed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrTableNotFound, name, d.Dir)
		}
		return nil, err
	}

	data, err := decompressXZ(ctx, compressed)
	if err != nil {
		return nil, err
	}
	return readCSV(name, bytes.NewReader(data))
}

// Files lists the sheet files present in the directory.
func (d *CSVDir) Files() ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.csv", "*.csv.xz"} {
		matches, err := filepath.Glob(filepath.Join(d.Dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// FSReader reads <sheet>.csv files from a file system, such as an embedded one.
type FSReader struct {
	FS  fs.FS
	Dir string
}

// ReadTable implements Reader.
func (r FSReader) ReadTable(_ context.Context, name string) (*Table, error) {
	f, err := r.FS.Open(path.Join(r.Dir, name+".csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}
		return nil, err
	}
	defer f.Close()
	return readCSV(name, f)
}

// readCSV parses a sheet whose first record is the header. Rows may be
// shorter or longer than the header.
func readCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}
	if len(records) == 0 {
		return &Table{Name: name}, nil
	}

	header := records[0]
	// Spreadsheet exports often carry a UTF-8 byte order mark
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	return &Table{Name: name, Header: header, Rows: records[1:]}, nil
}
