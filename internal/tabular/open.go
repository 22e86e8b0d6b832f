package tabular

import (
	"io"
	"path/filepath"
	"strings"
)

// Options control the backend chosen by Open.
type Options struct {
	// Compress writes CSV sheets through xz
	Compress bool

	// XZ preset 0-9; 0 keeps the default
	XZPreset int
}

// Store is a backend that can be read, written and closed.
type Store interface {
	ReadWriter
	io.Closer
}

// Open picks a backend from the path: a SQLite database for .db, .sqlite and
// .sqlite3 files, an Excel workbook for .xlsx, otherwise a CSV directory.
func Open(path string, opts Options) (Store, error) {
	if IsSQLitePath(path) {
		return OpenSQLite(path)
	}
	if IsXLSXPath(path) {
		return OpenXLSX(path)
	}
	dir := NewCSVDir(path, opts.Compress)
	if opts.XZPreset > 0 {
		dir.XZPreset = opts.XZPreset
	}
	return csvStore{dir}, nil
}

// IsSQLitePath reports whether Open treats path as a SQLite database.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// IsXLSXPath reports whether Open treats path as an Excel workbook.
func IsXLSXPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// IsCSVDir reports whether Open writes path as a directory of CSV files,
// the only backend that can compress.
func IsCSVDir(path string) bool {
	return !IsSQLitePath(path) && !IsXLSXPath(path)
}

type csvStore struct {
	*CSVDir
}

func (csvStore) Close() error { return nil }
