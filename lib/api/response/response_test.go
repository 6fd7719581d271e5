package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Quantity int    `validate:"gte=1"`
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(form{Email: "nope"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t,
		"field Name is a required field, field Email is not a valid email, field Quantity must be at least 1",
		resp.Error,
	)
}

func TestOKAndError(t *testing.T) {
	assert.Equal(t, Response{Status: StatusOK}, OK())
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, Error("boom"))
}
