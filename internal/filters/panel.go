package filters

import (
	"partsdash/domain/catalog"
	"partsdash/domain/table"
)

// DefaultMaxDistinct is the upper cardinality bound for ad-hoc filters.
const DefaultMaxDistinct = 100

// Filter is one multi-select offered on a panel.
type Filter struct {
	Column  string   `json:"column"`
	Options []string `json:"options"`
}

// Panel is a set of independent multi-select filters over one table.
// Selections compose by AND regardless of order.
type Panel struct {
	Table        string   `json:"table"`
	EntityColumn string   `json:"entity_column,omitempty"`
	Filters      []Filter `json:"filters"`
}

// NewPanel offers a filter for each listed column, whatever its cardinality.
func NewPanel(t *table.Table, columns ...string) Panel {
	p := Panel{Table: t.Name}
	for _, c := range columns {
		if t.HasColumn(c) {
			p.Filters = append(p.Filters, Filter{Column: c, Options: t.Distinct(c, nil)})
		}
	}
	return p
}

// AutoPanel offers a filter for every column except entityColumn whose
// distinct non-null count is greater than 1 and at most maxDistinct.
func AutoPanel(t *table.Table, entityColumn string, maxDistinct int) Panel {
	if maxDistinct <= 0 {
		maxDistinct = DefaultMaxDistinct
	}

	p := Panel{Table: t.Name, EntityColumn: entityColumn}
	for _, c := range t.Columns {
		if c == entityColumn {
			continue
		}
		n := t.DistinctCount(c, maxDistinct)
		if n > 1 && n <= maxDistinct {
			p.Filters = append(p.Filters, Filter{Column: c, Options: t.Distinct(c, nil)})
		}
	}
	return p
}

// Without drops the filters on the given pass-through columns.
func (p Panel) Without(columns ...string) Panel {
	skip := make(map[string]bool, len(columns))
	for _, c := range columns {
		skip[c] = true
	}
	out := Panel{Table: p.Table, EntityColumn: p.EntityColumn}
	for _, f := range p.Filters {
		if !skip[f.Column] {
			out.Filters = append(out.Filters, f)
		}
	}
	return out
}

// Columns lists the filterable columns.
func (p Panel) Columns() []string {
	out := make([]string, len(p.Filters))
	for i, f := range p.Filters {
		out[i] = f.Column
	}
	return out
}

// Apply keeps rows matching every non-empty selection on the panel's
// columns. Selections on other columns are ignored.
func (p Panel) Apply(t *table.Table, state catalog.FilterState) *table.Table {
	fields := make([]Field, len(p.Filters))
	for i, f := range p.Filters {
		fields[i] = Field{Name: f.Column, Column: f.Column}
	}
	return NewCascade("", fields...).Apply(t, state)
}
