// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/credstore/internal/errors"
)

var (
	// credentialNameRegex allows slash-delimited path segments of letters,
	// digits, underscore, hyphen and dot, e.g. "/prod/db-password".
	credentialNameRegex = regexp.MustCompile(`^/?[a-zA-Z0-9_.\-]+(/[a-zA-Z0-9_.\-]+)*$`)

	// actorRegex allows identity strings like "uaa-user:admin" or
	// "mtls-app:0b7f...", one or more colon-delimited tokens.
	actorRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+(:[a-zA-Z0-9_.\-]+)*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CredentialName validates a slash-delimited credential name.
var CredentialName = validation.NewStringRuleWithError(
	func(s string) bool {
		return credentialNameRegex.MatchString(s)
	},
	validation.NewError("validation_credential_name", "must be a slash-delimited path of letters, digits, '_', '-' and '.'"),
)

// Actor validates an actor identity string.
var Actor = validation.NewStringRuleWithError(
	func(s string) bool {
		return actorRegex.MatchString(s)
	},
	validation.NewError("validation_actor", "must be a colon-delimited identity of letters, digits, '_', '-' and '.'"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
