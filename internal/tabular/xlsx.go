package tabular

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	defaultXLSXSheet = "Sheet1"
	scratchXLSXSheet = "sampledata_tmp"
)

// XLSX stores each table as a worksheet of one Excel workbook. Changes are
// saved to disk on Close.
type XLSX struct {
	path  string
	f     *excelize.File
	fresh bool
	dirty bool
}

// OpenXLSX opens the workbook at path, or starts an empty one when the file
// does not exist yet.
func OpenXLSX(path string) (*XLSX, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &XLSX{path: path, f: excelize.NewFile(), fresh: true}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &XLSX{path: path, f: f}, nil
}

// Close saves a modified workbook and releases it.
func (x *XLSX) Close() error {
	var saveErr error
	if x.dirty {
		if err := x.f.SaveAs(x.path); err != nil {
			saveErr = fmt.Errorf("save workbook %s: %w", x.path, err)
		}
	}
	if err := x.f.Close(); err != nil && saveErr == nil {
		return err
	}
	return saveErr
}

// WriteTable implements Writer. A worksheet with the same name is replaced.
func (x *XLSX) WriteTable(ctx context.Context, t *Table) error {
	if len(t.Header) == 0 {
		return fmt.Errorf("sheet %s: no columns", t.Name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Rows go to a scratch sheet first; a workbook must keep one sheet, so
	// the old sheet can only be dropped once another exists.
	if _, err := x.f.NewSheet(scratchXLSXSheet); err != nil {
		return fmt.Errorf("sheet %s: %w", t.Name, err)
	}
	if err := x.writeRows(scratchXLSXSheet, t); err != nil {
		return err
	}

	if x.hasSheet(t.Name) {
		if err := x.f.DeleteSheet(t.Name); err != nil {
			return fmt.Errorf("replace sheet %s: %w", t.Name, err)
		}
	}
	if x.fresh {
		if x.hasSheet(defaultXLSXSheet) {
			if err := x.f.DeleteSheet(defaultXLSXSheet); err != nil {
				return fmt.Errorf("sheet %s: %w", t.Name, err)
			}
		}
		x.fresh = false
	}
	if err := x.f.SetSheetName(scratchXLSXSheet, t.Name); err != nil {
		return fmt.Errorf("sheet %s: %w", t.Name, err)
	}

	if idx, err := x.f.GetSheetIndex(t.Name); err == nil && idx >= 0 {
		x.f.SetActiveSheet(idx)
	}
	x.dirty = true
	return nil
}

func (x *XLSX) writeRows(sheet string, t *Table) error {
	put := func(r int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := x.f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", t.Name, r, err)
		}
		return nil
	}

	if err := put(1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := put(i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// ReadTable implements Reader. The first row is the header; blank rows are
// dropped and short rows padded to the header width.
func (x *XLSX) ReadTable(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sheet, ok := x.lookupSheet(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	rows, err := x.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return NewTable(name), nil
	}

	t := NewTable(name, rows[0]...)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Append(row...)
	}
	return t, nil
}

func (x *XLSX) hasSheet(name string) bool {
	idx, err := x.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// lookupSheet matches sheet names case-insensitively, the way Excel does.
func (x *XLSX) lookupSheet(name string) (string, bool) {
	for _, s := range x.f.GetSheetList() {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}
