package merge

import (
	"testing"

	"partsdash/domain/table"
	"partsdash/internal/pivot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(codes ...string) *table.Table {
	t := table.New("products", []string{"product_code", "category_text"})
	for _, c := range codes {
		t.Append(table.Row{"product_code": c, "category_text": "Gaskets"})
	}
	return t
}

func pivoted(t *testing.T, rows ...[3]string) *table.Table {
	t.Helper()
	long := table.New("references", []string{"code", "company_name", "relation_code"})
	interest := make(pivot.CodeSet)
	for _, r := range rows {
		long.Append(table.Row{"code": r[0], "company_name": r[1], "relation_code": r[2]})
		if k := pivot.NormalizeCode(r[0]); k != "" {
			interest[k] = struct{}{}
		}
	}
	res, err := pivot.NewEngine(pivot.CollapseCollisions).Pivot(long,
		pivot.Columns{Code: "code", Brand: "company_name", Reference: "relation_code"}, interest)
	require.NoError(t, err)
	return res.Table
}

func TestJoinMatchesOnNormalizedCode(t *testing.T) {
	merged, err := Join(products("00123", "0456"), "product_code",
		pivoted(t, [3]string{"123", "Zeta", "Z-1"}, [3]string{"123", "Alpha", "A-1"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"product_code", "category_text", "code_normalized",
		"brand_1", "reference_1", "brand_2", "reference_2"}, merged.Columns)
	require.Equal(t, 2, merged.Len())

	first := merged.Rows[0]
	assert.Equal(t, "00123", first["product_code"], "raw product code is kept")
	assert.Equal(t, "123", first["code_normalized"])
	assert.Equal(t, "Zeta", first["brand_1"])
	assert.Equal(t, "A-1", first["reference_2"])

	second := merged.Rows[1]
	_, ok := second.Get("brand_1")
	assert.False(t, ok)
}

func TestJoinPreservesLeftRowsWithEmptyPivot(t *testing.T) {
	prod := products("1", "2", "2", "3")
	empty := table.New("references_pivot", []string{pivot.ColCode, pivot.ColCodeNormalized})

	merged, err := Join(prod, "product_code", empty)
	require.NoError(t, err)
	assert.Equal(t, prod.Len(), merged.Len())
	for _, row := range merged.Rows {
		for _, c := range merged.Columns {
			if c == "product_code" || c == "category_text" || c == KeyColumn {
				continue
			}
			_, ok := row.Get(c)
			assert.False(t, ok)
		}
	}
}

func TestJoinDuplicateProductsStayDuplicated(t *testing.T) {
	merged, err := Join(products("7", "007", "07"), "product_code", pivoted(t, [3]string{"7", "X", "x"}))
	require.NoError(t, err)
	require.Equal(t, 3, merged.Len())
	for _, row := range merged.Rows {
		assert.Equal(t, "X", row["brand_1"])
	}
}

func TestJoinAllZeroCodesNeverMatch(t *testing.T) {
	pv := table.New("references_pivot", []string{pivot.ColCode, pivot.ColCodeNormalized, "brand_1", "reference_1"})
	pv.Append(table.Row{pivot.ColCode: "000", pivot.ColCodeNormalized: "", "brand_1": "Ghost"})

	merged, err := Join(products("00000"), "product_code", pv)
	require.NoError(t, err)
	require.Equal(t, 1, merged.Len())
	_, ok := merged.Rows[0].Get("brand_1")
	assert.False(t, ok)
	_, ok = merged.Rows[0].Get(KeyColumn)
	assert.False(t, ok)
}

func TestJoinRejectsFanOut(t *testing.T) {
	pv := table.New("references_pivot", []string{pivot.ColCode, pivot.ColCodeNormalized, "brand_1"})
	pv.Append(table.Row{pivot.ColCode: "007", pivot.ColCodeNormalized: "7", "brand_1": "X"})
	pv.Append(table.Row{pivot.ColCode: "7", pivot.ColCodeNormalized: "7", "brand_1": "Y"})

	_, err := Join(products("7"), "product_code", pv)
	assert.Error(t, err)
}

func TestJoinRenamesConflictingColumns(t *testing.T) {
	prod := table.New("products", []string{"product_code", "brand_1"})
	prod.Append(table.Row{"product_code": "5", "brand_1": "own"})

	merged, err := Join(prod, "product_code", pivoted(t, [3]string{"5", "Other", "o"}))
	require.NoError(t, err)
	assert.Contains(t, merged.Columns, "brand_1_ref")
	assert.Equal(t, "own", merged.Rows[0]["brand_1"])
	assert.Equal(t, "Other", merged.Rows[0]["brand_1_ref"])
}

func TestJoinDoesNotMutateProducts(t *testing.T) {
	prod := products("123")
	_, err := Join(prod, "product_code", pivoted(t, [3]string{"123", "Z", "z"}))
	require.NoError(t, err)
	assert.NotContains(t, prod.Rows[0], "brand_1")
	assert.NotContains(t, prod.Rows[0], KeyColumn)
}
