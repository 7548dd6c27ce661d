package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/credstore/internal/errors"
)

func TestCredentialName(t *testing.T) {
	valid := []string{
		"/db-password",
		"/deploy/prod/api.key",
		"simple",
		"root-ca",
		"/a/b/c",
	}
	for _, name := range valid {
		assert.NoError(t, validation.Validate(name, CredentialName), name)
	}

	invalid := []string{
		"",
		"/",
		"//double",
		"/trailing/",
		"with space",
		"/semi;colon",
	}
	for _, name := range invalid {
		assert.Error(t, validation.Validate(name, CredentialName), name)
	}
}

func TestActor(t *testing.T) {
	valid := []string{
		"uaa-user:admin",
		"mtls-app:web",
		"batch",
		"a:b:c",
	}
	for _, actor := range valid {
		assert.NoError(t, validation.Validate(actor, Actor), actor)
	}

	invalid := []string{
		"",
		":leading",
		"trailing:",
		"with space:app",
	}
	for _, actor := range invalid {
		assert.Error(t, validation.Validate(actor, Actor), actor)
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("clean", NoWhitespace))
	assert.Error(t, validation.Validate(" padded", NoWhitespace))
	assert.Error(t, validation.Validate("padded ", NoWhitespace))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("x", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("boom"))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
