// Package tabular maps generation records to and from named sheets of string
// rows, and stores those sheets in CSV directories, SQLite files and MySQL.
package tabular

import (
	"context"
	"errors"
	"strings"
)

// ErrTableNotFound is returned when a reader has no sheet with the requested name.
var ErrTableNotFound = errors.New("table not found")

// Sheet names used by the generator.
const (
	SheetDefinitions  = "Definitions"
	SheetTransactions = "Transaction"
	SheetSplits       = "Split"
	SheetPayees       = "Payee"
	SheetBudget       = "BudgetTx"
)

// Table is one named sheet: a header row and data rows of text cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// NewTable creates an empty table with the given header
func NewTable(name string, header ...string) *Table {
	return &Table{Name: name, Header: header}
}

// Append adds a data row.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Column returns the index of the named column, matched case-insensitively,
// or -1 if the header has no such column.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Reader loads sheets by name.
type Reader interface {
	ReadTable(ctx context.Context, name string) (*Table, error)
}

// Writer stores sheets, replacing any existing sheet with the same name.
type Writer interface {
	WriteTable(ctx context.Context, t *Table) error
}

// ReadWriter is implemented by backends that both load and store sheets.
type ReadWriter interface {
	Reader
	Writer
}
