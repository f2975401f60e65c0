package auth_test

import (
	stderrors "errors"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/jobhub/auth"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.Error
		wantCode int
		wantText string
	}{
		{"identity not found", auth.ErrIdentityNotFound, errors.CodeBadRequest, "USER_NOT_FOUND"},
		{"bad credentials", auth.ErrMismatchedHashAndPassword, errors.CodeBadRequest, "BAD_CREDENTIALS"},
		{"unverified account", auth.ErrAccountNotVerified, errors.CodeForbidden, "ACCOUNT_NOT_VERIFIED"},
		{"duplicate email", auth.ErrDuplicateEmail, errors.CodeBadRequest, "DUPLICATE_EMAIL"},
		{"expired token", auth.ErrTokenExpired, errors.CodeUnauthorized, "TOKEN_EXPIRED"},
		{"malformed token", auth.ErrTokenMalformed, errors.CodeUnauthorized, "TOKEN_MALFORMED"},
		{"revoked session", auth.ErrSessionRevoked, errors.CodeUnauthorized, "SESSION_REVOKED"},
		{"unauthorized", auth.ErrUnauthorized, errors.CodeUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantText, tt.err.TextCode)
		})
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlite unique", stderrors.New("UNIQUE constraint failed: users.email"), true},
		{"postgres unique", stderrors.New(`duplicate key value violates unique constraint "users_email_key"`), true},
		{"unrelated", stderrors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.IsDuplicateKeyError(tt.err))
		})
	}
}

func TestTokenErrorHelpers(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))

	assert.False(t, auth.IsTokenExpiredError(nil))
	assert.False(t, auth.IsMalformedError(nil))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
}
