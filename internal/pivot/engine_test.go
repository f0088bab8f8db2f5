package pivot

import (
	"errors"
	"testing"

	"partsdash/domain/core"
	"partsdash/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refCols = Columns{Code: "code", Brand: "company_name", Reference: "relation_code"}

func longTable(rows ...[3]string) *table.Table {
	t := table.New("references", []string{"code", "company_name", "relation_code"})
	for _, r := range rows {
		t.Append(table.Row{"code": r[0], "company_name": r[1], "relation_code": r[2]})
	}
	return t
}

func codes(values ...string) CodeSet {
	s := make(CodeSet)
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func TestNormalizeCode(t *testing.T) {
	tests := map[string]string{
		"00123": "123",
		"123":   "123",
		"000":   "",
		"":      "",
		"0A0":   "A0",
		"100":   "100",
	}
	for in, want := range tests {
		got := NormalizeCode(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Equal(t, got, NormalizeCode(got), "idempotent for %q", in)
	}
}

func TestCodesOfSkipsEmptyKeys(t *testing.T) {
	tbl := table.New("products", []string{"product_code"})
	for _, c := range []string{"00123", "123", "000", ""} {
		tbl.Append(table.Row{"product_code": c})
	}
	set := CodesOf(tbl, "product_code")
	assert.Equal(t, codes("123"), set)
}

func TestPivotRowCountAndWidth(t *testing.T) {
	long := longTable(
		[3]string{"A", "X", "x1"},
		[3]string{"B", "Q", "q1"},
		[3]string{"A", "Y", "y1"},
		[3]string{"A", "Z", "z1"},
	)

	res, err := NewEngine(CollapseCollisions).Pivot(long, refCols, codes("A", "B"))
	require.NoError(t, err)

	assert.Equal(t, 3, res.MaxRepeat)
	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, []string{"code", "code_normalized",
		"brand_1", "reference_1", "brand_2", "reference_2", "brand_3", "reference_3"}, res.Table.Columns)

	a, b := res.Table.Rows[0], res.Table.Rows[1]
	assert.Equal(t, "A", a["code"])
	assert.Equal(t, "z1", a["reference_3"])
	assert.Equal(t, "Q", b["brand_1"])
	_, ok := b.Get("brand_2")
	assert.False(t, ok, "shorter groups leave higher indices null")
	_, ok = b.Get("reference_3")
	assert.False(t, ok)
}

func TestPivotKeepsSourceOrderNotAlphabetical(t *testing.T) {
	long := longTable(
		[3]string{"A", "Zeta", "1"},
		[3]string{"A", "Alpha", "2"},
		[3]string{"A", "Mid", "3"},
	)

	res, err := NewEngine("").Pivot(long, refCols, codes("A"))
	require.NoError(t, err)

	row := res.Table.Rows[0]
	assert.Equal(t, "Zeta", row["brand_1"])
	assert.Equal(t, "Alpha", row["brand_2"])
	assert.Equal(t, "Mid", row["brand_3"])
}

func TestPivotRestrictsToInterestSet(t *testing.T) {
	long := longTable(
		[3]string{"0123", "X", "x"},
		[3]string{"555", "U", "u"},
		[3]string{"000", "G", "g"},
	)

	res, err := NewEngine("").Pivot(long, refCols, codes("123", ""))
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "0123", res.Table.Rows[0]["code"])
	assert.Equal(t, "123", res.Table.Rows[0]["code_normalized"])
}

func TestPivotEmptyInterestSet(t *testing.T) {
	long := longTable([3]string{"A", "X", "x"})

	res, err := NewEngine("").Pivot(long, refCols, CodeSet{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Table.Len())
	assert.Equal(t, 0, res.MaxRepeat)
	assert.Equal(t, []string{"code", "code_normalized"}, res.Table.Columns)
}

func TestPivotNullCellsKeepTheirIndex(t *testing.T) {
	long := longTable(
		[3]string{"A", "", "x1"},
		[3]string{"A", "Y", ""},
	)

	res, err := NewEngine("").Pivot(long, refCols, codes("A"))
	require.NoError(t, err)

	row := res.Table.Rows[0]
	_, ok := row.Get("brand_1")
	assert.False(t, ok)
	assert.Equal(t, "x1", row["reference_1"])
	assert.Equal(t, "Y", row["brand_2"])
}

func TestPivotCollapsesRawVariants(t *testing.T) {
	long := longTable(
		[3]string{"007", "X", "x"},
		[3]string{"7", "Y", "y"},
		[3]string{"007", "Z", "z"},
	)

	res, err := NewEngine(CollapseCollisions).Pivot(long, refCols, codes("7"))
	require.NoError(t, err)

	require.Equal(t, 1, res.Table.Len(), "one entity row per normalized code")
	row := res.Table.Rows[0]
	assert.Equal(t, "007", row["code"])
	assert.Equal(t, []string{"X", "Y", "Z"}, []string{row["brand_1"], row["brand_2"], row["brand_3"]})
	assert.Equal(t, []Collision{{Normalized: "7", RawCodes: []string{"007", "7"}}}, res.Collisions)
}

func TestPivotRejectsRawVariants(t *testing.T) {
	long := longTable(
		[3]string{"007", "X", "x"},
		[3]string{"7", "Y", "y"},
	)

	_, err := NewEngine(RejectCollisions).Pivot(long, refCols, codes("7"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrKeyCollision))

	var collision *core.KeyCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, []string{"007", "7"}, collision.RawCodes)
}

func TestParseCollisionPolicy(t *testing.T) {
	p, err := ParseCollisionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CollapseCollisions, p)

	p, err = ParseCollisionPolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, RejectCollisions, p)

	_, err = ParseCollisionPolicy("explode")
	assert.Error(t, err)
}
