// Package filters derives selector options from tables and applies the
// user's selections. Source tables are never modified.
package filters

import (
	"fmt"

	"partsdash/domain/catalog"
	"partsdash/domain/table"
)

// Field binds a filter name to a column. Transform, when set, maps cell
// values to option values (e.g. stripping leading zeros from codes).
type Field struct {
	Name      string
	Column    string
	Transform func(string) string
}

func (f Field) value(row table.Row) (string, bool) {
	v, ok := row.Get(f.Column)
	if !ok {
		return "", false
	}
	if f.Transform != nil {
		v = f.Transform(v)
		if table.IsNull(v) {
			return "", false
		}
	}
	return v, true
}

func (f Field) matches(row table.Row, selected []string) bool {
	v, ok := f.value(row)
	if !ok {
		return false
	}
	for _, s := range selected {
		if v == s {
			return true
		}
	}
	return false
}

// Cascade is an ordered chain of fields; each field's options are narrowed
// by the selections made on the fields before it.
type Cascade struct {
	fields   []Field
	allLabel string
}

// NewCascade creates a cascade. allLabel is the "unselected" sentinel put in
// front of every option list.
func NewCascade(allLabel string, fields ...Field) *Cascade {
	return &Cascade{fields: fields, allLabel: allLabel}
}

// AllLabel returns the unselected sentinel.
func (c *Cascade) AllLabel() string { return c.allLabel }

// Options returns the sorted distinct values of field restricted to rows
// matching every upstream selection, with the sentinel prepended.
func (c *Cascade) Options(t *table.Table, state catalog.FilterState, field string) ([]string, error) {
	pos := c.index(field)
	if pos < 0 {
		return nil, fmt.Errorf("unknown filter field %q", field)
	}

	upstream := c.restrict(t, state, c.fields[:pos])
	values := upstream.Distinct(c.fields[pos].Column, c.fields[pos].Transform)
	return append([]string{c.allLabel}, values...), nil
}

// AllOptions computes options for every field in cascade order.
func (c *Cascade) AllOptions(t *table.Table, state catalog.FilterState) map[string][]string {
	out := make(map[string][]string, len(c.fields))
	for _, f := range c.fields {
		opts, _ := c.Options(t, state, f.Name)
		out[f.Name] = opts
	}
	return out
}

// Active reports whether any field carries a selection other than the sentinel.
func (c *Cascade) Active(state catalog.FilterState) bool {
	for _, f := range c.fields {
		if len(c.selected(state, f.Name)) > 0 {
			return true
		}
	}
	return false
}

// Apply filters t by every field's selection.
func (c *Cascade) Apply(t *table.Table, state catalog.FilterState) *table.Table {
	return c.restrict(t, state, c.fields)
}

func (c *Cascade) restrict(t *table.Table, state catalog.FilterState, fields []Field) *table.Table {
	type active struct {
		field    Field
		selected []string
	}
	var actives []active
	for _, f := range fields {
		selected := c.selected(state, f.Name)
		if len(selected) > 0 {
			actives = append(actives, active{field: f, selected: selected})
		}
	}
	if len(actives) == 0 {
		return t
	}

	return t.Filter(func(row table.Row) bool {
		for _, a := range actives {
			if !a.field.matches(row, a.selected) {
				return false
			}
		}
		return true
	})
}

// selected drops the sentinel so choosing "All" imposes no restriction.
func (c *Cascade) selected(state catalog.FilterState, name string) []string {
	var out []string
	for _, v := range state.Values(name) {
		if v != c.allLabel {
			out = append(out, v)
		}
	}
	return out
}

func (c *Cascade) index(name string) int {
	for i, f := range c.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
