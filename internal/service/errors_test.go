package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrProductNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrProductNotFound, ErrConflict))
	assert.True(t, errors.Is(ErrNegativeStock, ErrConflict))
	assert.Equal(t, "product not found", ErrProductNotFound.Error())

	cause := errors.New("boom")
	err := wrapKind(ErrInvalidInput, cause)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "boom", err.Error())

	type payload struct {
		Name string `validate:"required"`
	}
	err = validate(&payload{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "Validation failed: Field 'payload.Name' failed on tag 'required'", err.Error())
}
