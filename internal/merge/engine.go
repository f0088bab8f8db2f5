// Package merge left-joins the filtered product view onto pivoted
// references and decides which merged columns are worth showing.
package merge

import (
	"fmt"

	"partsdash/domain/table"
	"partsdash/internal/pivot"
)

// KeyColumn is added to every merged row: the normalized product code.
const KeyColumn = pivot.ColCodeNormalized

// conflictSuffix renames pivot columns whose name the product table already uses.
const conflictSuffix = "_ref"

// Join left-joins products with the pivoted table on normalized code. Every
// product row appears exactly once, in order; rows without a match (including
// codes that normalize to "") get null reference columns. The pivoted table
// must hold at most one row per normalized code.
func Join(products *table.Table, productCodeColumn string, pivoted *table.Table) (*table.Table, error) {
	byKey := make(map[string]table.Row, pivoted.Len())
	for _, row := range pivoted.Rows {
		key, ok := row.Get(pivot.ColCodeNormalized)
		if !ok {
			continue
		}
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("pivoted table %s has several rows for code %q", pivoted.Name, key)
		}
		byKey[key] = row
	}

	// Pivot columns other than the code pair, renamed on conflict.
	rename := make(map[string]string)
	columns := append([]string(nil), products.Columns...)
	if !products.HasColumn(KeyColumn) {
		columns = append(columns, KeyColumn)
	}
	taken := make(map[string]bool, len(columns))
	for _, c := range columns {
		taken[c] = true
	}
	for _, c := range pivoted.Columns {
		if c == pivot.ColCode || c == pivot.ColCodeNormalized {
			continue
		}
		out := c
		for taken[out] {
			out += conflictSuffix
		}
		taken[out] = true
		rename[c] = out
		columns = append(columns, out)
	}

	merged := table.New(products.Name, columns)
	merged.Rows = make([]table.Row, 0, products.Len())
	for _, prod := range products.Rows {
		row := prod.Clone()
		code, _ := prod.Get(productCodeColumn)
		key := pivot.NormalizeCode(code)
		if key != "" {
			row[KeyColumn] = key
		} else {
			delete(row, KeyColumn)
		}

		if match, ok := byKey[key]; ok && key != "" {
			for from, to := range rename {
				if v, ok := match.Get(from); ok {
					row[to] = v
				}
			}
		}
		merged.Rows = append(merged.Rows, row)
	}

	if merged.Len() != products.Len() {
		return nil, fmt.Errorf("merge changed product row count from %d to %d", products.Len(), merged.Len())
	}
	return merged, nil
}
