package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is returned when no account matches the identifier.
// The original API surfaces this as a 400, distinct from a bad password.
var ErrIdentityNotFound = errors.New("user not found, sign up first", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode("USER_NOT_FOUND")

// ErrMismatchedHashAndPassword is returned when the password does not match.
var ErrMismatchedHashAndPassword = errors.New("incorrect password", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode("BAD_CREDENTIALS")

// ErrAccountNotVerified gates login on the verification flag.
var ErrAccountNotVerified = errors.New("please verify your account first", errors.CategoryAuth).
	WithCode(errors.CodeForbidden).
	WithTextCode("ACCOUNT_NOT_VERIFIED")

// ErrDuplicateEmail is the authoritative signal for a second signup with an
// email already present, whether caught by the pre-check or by the storage
// uniqueness constraint.
var ErrDuplicateEmail = errors.New("email already exists", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode("DUPLICATE_EMAIL")

// ErrTokenExpired is returned for tokens whose expiry has passed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed covers forged, truncated, or otherwise undecodable tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrSessionRevoked is returned when a cryptographically valid token no longer
// has a live ledger row, i.e. the user logged out elsewhere.
var ErrSessionRevoked = errors.New("session has been revoked", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("SESSION_REVOKED")

// ErrUnauthorized is the generic boundary error for protected routes.
var ErrUnauthorized = errors.New("unauthorized", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNAUTHORIZED")

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_VALUE")

// IsTokenExpiredError will check for expired tokens.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for undecodable tokens.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed")
}

// IsDuplicateKeyError detects a uniqueness-constraint violation from the
// storage layer. The insert, not the pre-check, is the source of truth for
// duplicate emails, so the message matching covers the dialects we run on.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: users.email")
}
