// Package testkit builds spreadsheet fixtures in memory for tests.
package testkit

import (
	"bytes"
	"encoding/csv"
	"testing"

	"partsdash/domain/catalog"
	"partsdash/ports"

	"github.com/xuri/excelize/v2"
)

// Sheet is a header plus rows of text cells.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// XLSX encodes a sheet as a workbook with every cell stored as a string.
func XLSX(tb testing.TB, sheet Sheet) []byte {
	tb.Helper()

	f := excelize.NewFile()
	defer f.Close()

	write := func(rowNum int, values []string) {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			tb.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &cells); err != nil {
			tb.Fatalf("set row %d: %v", rowNum, err)
		}
	}

	write(1, sheet.Headers)
	for i, row := range sheet.Rows {
		write(i+2, row)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		tb.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// CSV encodes a sheet as comma-separated text.
func CSV(tb testing.TB, sheet Sheet) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(sheet.Headers); err != nil {
		tb.Fatalf("write csv header: %v", err)
	}
	if err := w.WriteAll(sheet.Rows); err != nil {
		tb.Fatalf("write csv rows: %v", err)
	}
	return buf.Bytes()
}

// Sources is an in-memory SourceSet.
type Sources map[catalog.Role]ports.TableSource

// Source implements ports.SourceSet.
func (s Sources) Source(role catalog.Role) (ports.TableSource, bool) {
	src, ok := s[role]
	return src, ok
}

// Add registers a CSV-encoded sheet for role and returns s.
func (s Sources) Add(tb testing.TB, role catalog.Role, sheet Sheet) Sources {
	tb.Helper()
	s[role] = ports.TableSource{Role: role, Name: string(role) + ".csv", Data: CSV(tb, sheet)}
	return s
}

// AddXLSX registers an xlsx-encoded sheet for role and returns s.
func (s Sources) AddXLSX(tb testing.TB, role catalog.Role, sheet Sheet) Sources {
	tb.Helper()
	s[role] = ports.TableSource{Role: role, Name: string(role) + ".xlsx", Data: XLSX(tb, sheet)}
	return s
}
