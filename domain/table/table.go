package table

import (
	"sort"
)

// New creates an empty table with the given columns.
func New(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Append adds a row.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// HasColumn reports whether the column is present in the header.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the header, in
// the order they were requested.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Filter returns a table with the rows matching keep. Rows are shared.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Name, t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Project returns a table restricted to columns, in the order given.
// Unknown columns are skipped.
func (t *Table) Project(columns []string) *Table {
	kept := make([]string, 0, len(columns))
	for _, c := range columns {
		if t.HasColumn(c) {
			kept = append(kept, c)
		}
	}

	out := New(t.Name, kept)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		projected := make(Row, len(kept))
		for _, c := range kept {
			if v, ok := row.Get(c); ok {
				projected[c] = v
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// Distinct returns the sorted, distinct non-null values of a column after
// applying transform (nil means identity). Values that transform to null are
// dropped.
func (t *Table) Distinct(column string, transform func(string) string) []string {
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		v, ok := row.Get(column)
		if !ok {
			continue
		}
		if transform != nil {
			v = transform(v)
			if IsNull(v) {
				continue
			}
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// DistinctCount counts distinct non-null values, stopping once limit is
// exceeded when limit > 0.
func (t *Table) DistinctCount(column string, limit int) int {
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		if v, ok := row.Get(column); ok {
			seen[v] = struct{}{}
			if limit > 0 && len(seen) > limit {
				break
			}
		}
	}
	return len(seen)
}

// SortBy returns a copy ordered by column ascending. The sort is stable and
// null cells go last.
func (t *Table) SortBy(column string) *Table {
	out := New(t.Name, t.Columns)
	out.Rows = append([]Row(nil), t.Rows...)
	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, aok := out.Rows[i].Get(column)
		b, bok := out.Rows[j].Get(column)
		if aok != bok {
			return aok
		}
		return a < b
	})
	return out
}
