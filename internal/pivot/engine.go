// Package pivot reshapes long (code, brand, reference) tables into one row
// per code with numbered brand_<i>/reference_<i> columns.
package pivot

import (
	"fmt"
	"strconv"

	"partsdash/domain/core"
	"partsdash/domain/table"
	"partsdash/internal"
)

// Output column names.
const (
	ColCode           = "code"
	ColCodeNormalized = "code_normalized"
	BrandPrefix       = "brand_"
	ReferencePrefix   = "reference_"
)

// CollisionPolicy decides what happens when distinct raw codes share a
// normalized code.
type CollisionPolicy string

const (
	// CollapseCollisions merges the variants into one group in source order.
	CollapseCollisions CollisionPolicy = "collapse"
	// RejectCollisions fails the pivot with a KeyCollisionError.
	RejectCollisions CollisionPolicy = "reject"
)

// ParseCollisionPolicy parses a policy name, defaulting to collapse.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case "", CollapseCollisions:
		return CollapseCollisions, nil
	case RejectCollisions:
		return RejectCollisions, nil
	}
	return "", fmt.Errorf("unknown key collision policy %q", s)
}

// Columns names the long table's columns.
type Columns struct {
	Code      string
	Brand     string
	Reference string
}

// Collision records raw codes that were folded into one normalized code.
type Collision struct {
	Normalized string   `json:"normalized"`
	RawCodes   []string `json:"raw_codes"`
}

// Result is the pivoted table plus what the pivot observed.
type Result struct {
	Table      *table.Table
	MaxRepeat  int
	Collisions []Collision
}

// BrandColumn returns the name of the i-th (1-based) brand column.
func BrandColumn(i int) string { return BrandPrefix + strconv.Itoa(i) }

// ReferenceColumn returns the name of the i-th (1-based) reference column.
func ReferenceColumn(i int) string { return ReferencePrefix + strconv.Itoa(i) }

// NumberedColumns lists brand_1, reference_1, ... brand_k, reference_k.
func NumberedColumns(k int) []string {
	cols := make([]string, 0, 2*k)
	for i := 1; i <= k; i++ {
		cols = append(cols, BrandColumn(i), ReferenceColumn(i))
	}
	return cols
}

type group struct {
	normalized string
	rawCodes   []string
	entries    [][2]string
}

// Engine runs pivots.
type Engine struct {
	policy CollisionPolicy
	logger *internal.Logger
}

// NewEngine creates a pivot engine with the given collision policy.
func NewEngine(policy CollisionPolicy) *Engine {
	if policy == "" {
		policy = CollapseCollisions
	}
	return &Engine{policy: policy, logger: internal.DefaultLogger.Named("PivotEngine")}
}

// Pivot restricts long to codes in interest, groups by normalized code and
// numbers each group's rows 1..n in source order. Output rows follow the
// first appearance of each code.
func (e *Engine) Pivot(long *table.Table, cols Columns, interest CodeSet) (*Result, error) {
	var (
		groups []*group
		byCode = make(map[string]*group)
	)

	for _, row := range long.Rows {
		raw, _ := row.Get(cols.Code)
		normalized := NormalizeCode(raw)
		if normalized == "" || !interest.Has(normalized) {
			continue
		}

		g, ok := byCode[normalized]
		if !ok {
			g = &group{normalized: normalized}
			byCode[normalized] = g
			groups = append(groups, g)
		}
		if !containsString(g.rawCodes, raw) {
			g.rawCodes = append(g.rawCodes, raw)
		}
		brand, _ := row.Get(cols.Brand)
		reference, _ := row.Get(cols.Reference)
		g.entries = append(g.entries, [2]string{brand, reference})
	}

	result := &Result{}
	for _, g := range groups {
		if len(g.entries) > result.MaxRepeat {
			result.MaxRepeat = len(g.entries)
		}
		if len(g.rawCodes) > 1 {
			result.Collisions = append(result.Collisions, Collision{Normalized: g.normalized, RawCodes: g.rawCodes})
		}
	}

	if len(result.Collisions) > 0 {
		if e.policy == RejectCollisions {
			c := result.Collisions[0]
			return nil, &core.KeyCollisionError{Normalized: c.Normalized, RawCodes: c.RawCodes}
		}
		e.logger.Warn("%s: %d normalized codes have several raw spellings; merged in source order",
			long.Name, len(result.Collisions))
	}

	columns := append([]string{ColCode, ColCodeNormalized}, NumberedColumns(result.MaxRepeat)...)
	result.Table = table.New(long.Name+"_pivot", columns)
	result.Table.Rows = make([]table.Row, 0, len(groups))
	for _, g := range groups {
		row := table.Row{ColCode: g.rawCodes[0], ColCodeNormalized: g.normalized}
		for i, entry := range g.entries {
			if entry[0] != "" {
				row[BrandColumn(i+1)] = entry[0]
			}
			if entry[1] != "" {
				row[ReferenceColumn(i+1)] = entry[1]
			}
		}
		result.Table.Rows = append(result.Table.Rows, row)
	}

	e.logger.Debug("pivoted %s: %d codes of interest, %d matched, max repeat %d",
		long.Name, len(interest), len(groups), result.MaxRepeat)
	return result, nil
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
