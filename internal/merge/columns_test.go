package merge

import (
	"testing"

	"partsdash/domain/table"

	"github.com/stretchr/testify/assert"
)

func mergedSample() *table.Table {
	t := table.New("merged", []string{"product_code", "note", "brand_1", "brand_2"})
	t.Append(table.Row{"product_code": "1", "brand_1": "A"})
	t.Append(table.Row{"product_code": "2", "note": ""})
	return t
}

func TestNonEmptyColumns(t *testing.T) {
	assert.Equal(t, []string{"product_code", "brand_1"}, NonEmptyColumns(mergedSample()))
	assert.Empty(t, NonEmptyColumns(table.New("empty", []string{"a"})))
}

func TestColumnToggleDefaultsToAllAvailable(t *testing.T) {
	ct := NewColumnToggle(mergedSample(), nil)
	assert.Equal(t, ct.Available, ct.Selected)

	display := ct.Display(mergedSample())
	assert.Equal(t, []string{"product_code", "brand_1"}, display.Columns)
	assert.Equal(t, 2, display.Len())
}

func TestColumnToggleIgnoresUnavailable(t *testing.T) {
	ct := NewColumnToggle(mergedSample(), []string{"brand_1", "brand_2", "nope"})
	assert.Equal(t, []string{"brand_1"}, ct.Selected)
}

func TestColumnToggleEmptySelection(t *testing.T) {
	ct := NewColumnToggle(mergedSample(), []string{})
	display := ct.Display(mergedSample())
	assert.Empty(t, display.Columns)
	assert.Equal(t, 0, display.Len())
}
