package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"partsdash/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCodeMapsDomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewMalformedTableError("products", []string{"x"}, nil), CodeMalformedTable, http.StatusUnprocessableEntity},
		{core.NewUnresolvedColumnError("references", []string{"brand"}, nil), CodeUnresolvedColumn, http.StatusUnprocessableEntity},
		{core.NewUnsupportedFormatError("a.ods", ""), CodeUnsupportedFormat, http.StatusUnsupportedMediaType},
		{&core.KeyCollisionError{Normalized: "7"}, CodeKeyCollision, http.StatusUnprocessableEntity},
		{fmt.Errorf("lookup: %w", core.ErrSessionNotFound), CodeNotFound, http.StatusNotFound},
		{stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, test := range tests {
		code := GetCode(test.err)
		assert.Equal(t, test.code, code, test.err.Error())
		assert.Equal(t, test.status, HTTPStatus(code))
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := core.NewUnsupportedFormatError("a.ods", "")
	err := Wrap(cause, "failed to load products")

	assert.Equal(t, CodeUnsupportedFormat, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrUnsupportedFormat))
	assert.True(t, IsAppError(err))
	assert.Nil(t, Wrap(nil, "nothing"))

	outer := Wrapf(InvalidInput("bad role"), "upload %d", 3)
	assert.Equal(t, CodeInvalidInput, GetCode(outer))
	assert.Equal(t, "upload 3: bad role", outer.Error())
}
