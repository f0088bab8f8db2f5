// Package table holds the in-memory, all-text table model shared by every
// pipeline stage. Cells are never coerced: a product code "00123" stays a
// string. An empty or absent cell is null.
package table

// Row maps column name to cell text. Rows are treated as immutable once a
// table is built; stages that add columns copy the row first.
type Row map[string]string

// Get returns the cell and whether it is non-null.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	if !ok || IsNull(v) {
		return "", false
	}
	return v, true
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsNull reports whether a cell value counts as missing.
func IsNull(v string) bool {
	return v == ""
}

// Table is an ordered sequence of rows with insertion-ordered columns.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Raw is what a tabular file reader hands back: header cells as written in
// the file and data records aligned to them.
type Raw struct {
	Headers []string
	Records [][]string
}
