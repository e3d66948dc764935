package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Kind     string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Username: "u", Email: "u@example.com"}))

	err := Struct(sample{Email: "nope", Kind: "c"})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "username", verr.Fields[0].Field)
	assert.Equal(t, "username is required", verr.Fields[0].Message)
	assert.Equal(t, "email must be a valid email address", verr.Fields[1].Message)
	assert.Equal(t, "kind must be one of: a b", verr.Fields[2].Message)
}
