package validator

import (
	"testing"

	domainerrors "healthtrack/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(&credentials{Email: "a@x.com", Password: "pw"}))
	})

	t.Run("missing fields use json names", func(t *testing.T) {
		err := v.Validate(&credentials{})

		require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "email: this field is required; password: this field is required", appErr.Details())
	})

	t.Run("bad email", func(t *testing.T) {
		err := v.Validate(&credentials{Email: "not-an-email", Password: "pw"})

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "email: enter a valid email address", appErr.Details())
	})
}
