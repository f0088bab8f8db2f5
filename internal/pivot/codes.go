package pivot

import (
	"strings"

	"partsdash/domain/table"
)

// NormalizeCode strips leading zeros. It is pure and idempotent; an all-zero
// code normalizes to "" which is the null key and never joins.
func NormalizeCode(raw string) string {
	return strings.TrimLeft(raw, "0")
}

// CodeSet is a set of normalized codes.
type CodeSet map[string]struct{}

// CodesOf collects the non-empty normalized codes found in column.
func CodesOf(t *table.Table, column string) CodeSet {
	set := make(CodeSet)
	for _, row := range t.Rows {
		if code := NormalizeCode(row[column]); code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}

// Has reports membership.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}
