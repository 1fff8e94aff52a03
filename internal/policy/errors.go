package policy

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a policy rejection reason
type Code int

const (
	CodeMissingExpiration Code = iota + 1
	CodeExpirationTooFar
	CodeLengthTooShort
	CodeContainsUsername
	CodeInsufficientComplexity
	CodeWeaklyRanked
	CodeSecretEqualsUsername
	CodeExpirationSettingRequired
)

func (c Code) String() string {
	switch c {
	case CodeMissingExpiration:
		return "missing_expiration"
	case CodeExpirationTooFar:
		return "expiration_too_far"
	case CodeLengthTooShort:
		return "length_too_short"
	case CodeContainsUsername:
		return "contains_username"
	case CodeInsufficientComplexity:
		return "insufficient_complexity"
	case CodeWeaklyRanked:
		return "weakly_ranked"
	case CodeSecretEqualsUsername:
		return "secret_equals_username"
	case CodeExpirationSettingRequired:
		return "expiration_setting_required"
	default:
		return "unknown"
	}
}

// Error represents a rejected policy decision. Rejections are terminal for
// the current request: there is no retry and no partial application.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"-"` // sensitive diagnostic, logged but never returned to the caller
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode lets the error middleware map rejections without importing this package.
func (e *Error) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// AsError unwraps a policy rejection from an error chain.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func errMissingExpiration() *Error {
	return &Error{
		Code:    CodeMissingExpiration,
		Message: "password expiration date must be specified",
	}
}

func errExpirationTooFar(maxDays int) *Error {
	return &Error{
		Code:    CodeExpirationTooFar,
		Message: fmt.Sprintf("password expiration date must not be more than %d days in the future", maxDays),
	}
}

func errLengthTooShort(minLength int) *Error {
	return &Error{
		Code:    CodeLengthTooShort,
		Message: fmt.Sprintf("password is too short (minimum length is %d characters)", minLength),
	}
}

func errContainsUsername() *Error {
	return &Error{
		Code:    CodeContainsUsername,
		Message: "password must not contain user name",
	}
}

func errInsufficientComplexity() *Error {
	return &Error{
		Code:    CodeInsufficientComplexity,
		Message: "password must contain letters, at least one uppercase letter, numbers, and non-alphanumeric characters",
	}
}

func errWeaklyRanked(diagnostic string) *Error {
	return &Error{
		Code:    CodeWeaklyRanked,
		Message: "password is easily cracked",
		Detail:  diagnostic,
	}
}

func errSecretEqualsUsername() *Error {
	return &Error{
		Code:    CodeSecretEqualsUsername,
		Message: "password must not equal user name",
	}
}

func errExpirationSettingRequired() *Error {
	return &Error{
		Code:    CodeExpirationSettingRequired,
		Message: fmt.Sprintf("role change must specify a password expiration date using the %q option", OptionValidUntil),
	}
}
