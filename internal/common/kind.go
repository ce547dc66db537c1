package common

import "errors"

// Kind tags an error with the category used to build the outward response.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindDuplicateUsername  Kind = "duplicate_username"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindMissingAuthHeader  Kind = "missing_auth_header"
	KindInvalidToken       Kind = "invalid_token"
	KindNotFound           Kind = "not_found"
	KindStore              Kind = "store"
)

// KindOf classifies err by the sentinel it wraps. Anything unrecognised,
// including raw driver errors, is KindStore.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateUsername):
		return KindDuplicateUsername
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrMissingAuthHeader):
		return KindMissingAuthHeader
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return KindInvalidToken
	case errors.Is(err, ErrorNotFound):
		return KindNotFound
	default:
		return KindStore
	}
}
