package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record. Email is the unique, case-sensitive key.
// Organization is present exactly when the role is recruiter.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Organization  string     `bun:"organization,nullzero" json:"organization,omitempty"`
	Phone         string     `bun:"phone_number,nullzero" json:"phone_number,omitempty"`
	Verified      bool       `bun:"is_verified" json:"is_verified,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PublicUser is the projection safe to return to clients: the credential
// record with the password hash omitted.
type PublicUser struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	Organization string    `json:"organization,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Verified     bool      `json:"is_verified"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Organization: u.Organization,
		Phone:        u.Phone,
		Verified:     u.Verified,
	}
}

// Identity adapter so a loaded user can be handed to the token service.
type userIdentity struct {
	id    string
	email string
	role  string
}

func (a userIdentity) ID() string    { return a.id }
func (a userIdentity) Email() string { return a.email }
func (a userIdentity) Role() string  { return a.role }

var _ Identity = userIdentity{}

// IdentityFromUser adapts a user record to the Identity interface.
func IdentityFromUser(u *User) Identity {
	return userIdentity{
		id:    u.ID.String(),
		email: u.Email,
		role:  string(u.Role),
	}
}

// Session is the server-side revocation record for an issued token. Rows are
// created on login and destroyed on logout; a token is honored only while its
// row is live, regardless of signature validity.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:ses"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Token         string     `bun:"token,notnull" json:"token,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
