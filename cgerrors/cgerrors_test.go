package cgerrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightsea987/compgraph/cgerrors"
)

func TestIOErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := cgerrors.WrapIO(cause, "open", "/tmp/x")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/tmp/x")
}

func TestDomainErrorCarriesKeys(t *testing.T) {
	err := cgerrors.NewDomainError("Speed", map[string]string{"edge_id": "7"}, errors.New("division by zero"))
	assert.Contains(t, err.Error(), "Speed")
	assert.Contains(t, err.Error(), "edge_id")
}

func TestTypeMismatchErrorMessage(t *testing.T) {
	err := cgerrors.NewTypeMismatchError("col", errors.New("compound value"))
	assert.Contains(t, err.Error(), "col")
}
