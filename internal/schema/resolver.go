package schema

import (
	"strings"

	"partsdash/domain/core"
	"partsdash/domain/table"
)

// Resolver finds which available column answers to a logical name.
type Resolver struct {
	table     string
	available []string
	byKey     map[string]string
}

// NewResolver indexes the available (already normalized) column names.
// When two columns share a match key the earlier one wins.
func NewResolver(tableName string, available []string) *Resolver {
	r := &Resolver{
		table:     tableName,
		available: append([]string(nil), available...),
		byKey:     make(map[string]string, len(available)),
	}
	for _, c := range available {
		k := matchKey(c)
		if _, exists := r.byKey[k]; !exists {
			r.byKey[k] = c
		}
	}
	return r
}

// ResolverFor indexes a table's columns.
func ResolverFor(t *table.Table) *Resolver {
	return NewResolver(t.Name, t.Columns)
}

// matchKey ignores case, underscores and spaces on either side.
func matchKey(s string) string {
	return strings.ReplaceAll(NormalizeHeader(s), "_", "")
}

// Lookup returns the first available column matching a candidate, trying
// candidates in the order given.
func (r *Resolver) Lookup(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if col, ok := r.byKey[matchKey(c)]; ok {
			return col, true
		}
	}
	return "", false
}

// Resolve is Lookup returning an UnresolvedColumnError when nothing matches.
func (r *Resolver) Resolve(candidates ...string) (string, error) {
	if col, ok := r.Lookup(candidates...); ok {
		return col, nil
	}
	return "", core.NewUnresolvedColumnError(r.table, candidates, r.available)
}

// Require fails with a MalformedTableError listing absent columns.
func Require(t *table.Table, required ...string) error {
	if missing := t.MissingColumns(required); len(missing) > 0 {
		return core.NewMalformedTableError(t.Name, missing, t.Columns)
	}
	return nil
}
