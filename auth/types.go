package auth

import (
	"context"
	"fmt"
)

// Logger is the minimal structured logging surface auth components need.
// Implementations receive a message followed by key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of an authenticated identity.
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// Authenticator holds methods to deal with the session lifecycle.
type Authenticator interface {
	// Login verifies credentials, mints a session token, and records it in
	// the session ledger.
	Login(ctx context.Context, email, password string) (string, *User, error)
	// VerifySession re-validates a raw token against both the signing secret
	// and the ledger, returning the owning user.
	VerifySession(ctx context.Context, raw string) (*User, error)
	// Logout revokes every live session for the user.
	Logout(ctx context.Context, userID string) error
}

// TokenService mints and validates session tokens.
type TokenService interface {
	Generate(identity Identity) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	fmt.Printf("[%s] AUTH %s %v\n", level, msg, args)
}
