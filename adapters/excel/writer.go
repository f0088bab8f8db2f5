package excel

import (
	"context"
	"fmt"
	"io"

	"partsdash/domain/table"

	"github.com/xuri/excelize/v2"
)

// DataWriter encodes tables as single-sheet workbooks.
type DataWriter struct {
	sheet string
}

// NewDataWriter creates a writer targeting the given sheet name ("Sheet1" if empty).
func NewDataWriter(sheet string) *DataWriter {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &DataWriter{sheet: sheet}
}

// WriteTable writes the header and every row as text cells.
func (w *DataWriter) WriteTable(ctx context.Context, out io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := w.setRow(f, 1, toInterfaces(t.Columns)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			if v, ok := row.Get(c); ok {
				cells[j] = v
			} else {
				cells[j] = nil
			}
		}
		if err := w.setRow(f, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *DataWriter) setRow(f *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(w.sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
