package catalog

// FilterSelection is the value(s) chosen for one filter. A single-select
// filter carries at most one value; an empty Values means "unselected".
type FilterSelection struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// FilterState is an immutable, ordered set of selections as handed over by
// the UI for one recomputation. With returns a modified copy.
type FilterState struct {
	selections []FilterSelection
}

// NewFilterState builds a state from selections. Selections with no
// non-empty values are dropped.
func NewFilterState(selections ...FilterSelection) FilterState {
	var s FilterState
	for _, sel := range selections {
		s = s.With(sel.Name, sel.Values...)
	}
	return s
}

// With returns a copy of s with name set to values, replacing any prior
// selection for name. Empty strings are ignored; no values clears the filter.
func (s FilterState) With(name string, values ...string) FilterState {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}

	out := FilterState{selections: make([]FilterSelection, 0, len(s.selections)+1)}
	for _, sel := range s.selections {
		if sel.Name != name {
			out.selections = append(out.selections, sel)
		}
	}
	if len(kept) > 0 {
		out.selections = append(out.selections, FilterSelection{Name: name, Values: kept})
	}
	return out
}

// Values returns a copy of the selected values for name.
func (s FilterState) Values(name string) []string {
	for _, sel := range s.selections {
		if sel.Name == name {
			return append([]string(nil), sel.Values...)
		}
	}
	return nil
}

// Value returns the first selected value for a single-select filter.
func (s FilterState) Value(name string) string {
	for _, sel := range s.selections {
		if sel.Name == name {
			return sel.Values[0]
		}
	}
	return ""
}

// IsSet reports whether name has at least one selected value.
func (s FilterState) IsSet(name string) bool {
	return s.Value(name) != ""
}

// IsEmpty reports whether no filter is set.
func (s FilterState) IsEmpty() bool {
	return len(s.selections) == 0
}

// Selections returns a copy of the active selections.
func (s FilterState) Selections() []FilterSelection {
	out := make([]FilterSelection, len(s.selections))
	for i, sel := range s.selections {
		out[i] = FilterSelection{Name: sel.Name, Values: append([]string(nil), sel.Values...)}
	}
	return out
}

// Filter names used by the product view.
const (
	FilterCategory = "category"
	FilterSKU      = "sku"
)

// ViewRequest carries everything the product/reference view needs besides
// the files themselves.
type ViewRequest struct {
	Filters FilterState
	// Columns is the display toggle set; nil shows every non-empty column.
	Columns []string
	// SortBy orders the display; empty keeps source order.
	SortBy string
	// Against picks the long table pivoted onto the products.
	Against Role
}
