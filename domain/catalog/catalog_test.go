package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Exploded_View ")
	require.NoError(t, err)
	assert.Equal(t, RoleExplodedView, r)

	_, err = ParseRole("orders")
	assert.Error(t, err)
}

func TestRoleFlags(t *testing.T) {
	assert.True(t, RoleProducts.Mandatory())
	assert.False(t, RoleERPExport.Mandatory())
	assert.True(t, RoleApplications.IsReferenceLike())
	assert.False(t, RoleExplodedView.IsReferenceLike())
}

func TestFilterStateIsImmutable(t *testing.T) {
	base := NewFilterState(FilterSelection{Name: FilterCategory, Values: []string{"Gaskets"}})
	next := base.With(FilterSKU, "123")

	assert.False(t, base.IsSet(FilterSKU))
	assert.Equal(t, "123", next.Value(FilterSKU))
	assert.Equal(t, "Gaskets", next.Value(FilterCategory))

	values := next.Values(FilterCategory)
	values[0] = "mutated"
	assert.Equal(t, "Gaskets", next.Value(FilterCategory))
}

func TestFilterStateDropsEmptySelections(t *testing.T) {
	s := NewFilterState(FilterSelection{Name: FilterCategory, Values: []string{""}})
	assert.True(t, s.IsEmpty())

	s = s.With("brand", "A", "", "B")
	assert.Equal(t, []string{"A", "B"}, s.Values("brand"))

	s = s.With("brand")
	assert.True(t, s.IsEmpty())
}
