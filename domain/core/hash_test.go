package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeContentHash(t *testing.T) {
	data := []byte("product_code,category_text\n001,Gaskets\n")

	assert.Equal(t, ComputeContentHash("products", data), ComputeContentHash("products", data))
	assert.NotEqual(t, ComputeContentHash("products", data), ComputeContentHash("references", data),
		"same bytes under a different role must not share a key")
	assert.NotEqual(t, ComputeContentHash("products", data), ComputeContentHash("products", data[:len(data)-1]))
}

func TestColumnSubsetKey(t *testing.T) {
	assert.Equal(t, "*", ColumnSubsetKey(nil))
	assert.Equal(t, "*", ColumnSubsetKey([]string{}))
	assert.Equal(t, ColumnSubsetKey([]string{"b", "a"}), ColumnSubsetKey([]string{"a", "b"}))
	assert.NotEqual(t, ColumnSubsetKey([]string{"a"}), ColumnSubsetKey([]string{"a", "b"}))
}

func TestTableErrorsUnwrap(t *testing.T) {
	err := NewMalformedTableError("products", []string{"category_text"}, []string{"product_code"})
	assert.True(t, errors.Is(err, ErrMalformedTable))
	assert.True(t, IsTableError(err))
	assert.Contains(t, err.Error(), "category_text")

	var malformed *MalformedTableError
	if assert.True(t, errors.As(err, &malformed)) {
		assert.Equal(t, []string{"product_code"}, malformed.Found)
	}

	assert.True(t, IsFormatError(NewUnsupportedFormatError("notes.txt", "")))
	assert.False(t, IsTableError(NewUnsupportedFormatError("notes.txt", "")))
	assert.True(t, IsNotFoundError(ErrSessionNotFound))
}
