package merge

import (
	"partsdash/domain/table"
)

// NonEmptyColumns returns, in table order, the columns holding at least one
// non-null value.
func NonEmptyColumns(t *table.Table) []string {
	filled := make(map[string]bool, len(t.Columns))
	for _, row := range t.Rows {
		for c, v := range row {
			if !table.IsNull(v) {
				filled[c] = true
			}
		}
		if len(filled) == len(t.Columns) {
			break
		}
	}

	out := make([]string, 0, len(filled))
	for _, c := range t.Columns {
		if filled[c] {
			out = append(out, c)
		}
	}
	return out
}

// ColumnToggle is the display toggle set offered to the presentation layer.
type ColumnToggle struct {
	Available []string `json:"available"`
	Selected  []string `json:"selected"`
}

// NewColumnToggle intersects the requested columns with the available ones.
// A nil request selects everything; an empty, non-nil request selects nothing.
func NewColumnToggle(t *table.Table, requested []string) ColumnToggle {
	available := NonEmptyColumns(t)
	if requested == nil {
		return ColumnToggle{Available: available, Selected: append([]string(nil), available...)}
	}

	wanted := make(map[string]bool, len(requested))
	for _, c := range requested {
		wanted[c] = true
	}
	selected := make([]string, 0, len(requested))
	for _, c := range available {
		if wanted[c] {
			selected = append(selected, c)
		}
	}
	return ColumnToggle{Available: available, Selected: selected}
}

// Display projects t onto the selected columns. Selecting nothing yields an
// empty table rather than an error.
func (ct ColumnToggle) Display(t *table.Table) *table.Table {
	if len(ct.Selected) == 0 {
		return table.New(t.Name, nil)
	}
	return t.Project(ct.Selected)
}
