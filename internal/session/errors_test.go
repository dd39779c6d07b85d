package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionErrorMessage(t *testing.T) {
	err := NewError("sign in", errors.New("boom"))
	assert.Equal(t, "sign in: boom", err.Error())

	wrapped := WrapError("sign in", errors.New("boom"), "provider-x")
	assert.Equal(t, "sign in: boom (provider-x)", wrapped.Error())
}

func TestSessionErrorUnwrap(t *testing.T) {
	err := WrapError("forward input", ErrSessionTornDown, "channel closed")
	require.ErrorIs(t, err, ErrSessionTornDown)
}
