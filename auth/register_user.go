package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a signup request into the registration handler.
type RegisterUserMessage struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Phone        string `json:"phone"`
	UseHashid    bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler persists a new credential record. Registration never
// issues a session; the user logs in separately. A nil Sink disables activity
// reporting.
type RegisterUserHandler struct {
	Repo RepositoryManager
	Sink ActivitySink
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	role := event.Role
	if role == "" {
		role = RoleCandidate
	}

	if !IsValidRole(role) {
		return goerrors.New("invalid role selected", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"role": event.Role})
	}

	if role == RoleRecruiter && event.Organization == "" {
		return goerrors.New("organization name is required for recruiters", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("MISSING_ORGANIZATION")
	}

	var created *User

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Friendly fast path. The unique constraint on email remains the
		// final authority for concurrent signups that both pass this check.
		if _, err := h.Repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrDuplicateEmail
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing email")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided").
					WithCode(goerrors.CodeBadRequest)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user := &User{
			Name:         event.Name,
			Email:        event.Email,
			PasswordHash: hash,
			Role:         role,
			Phone:        event.Phone,
			// No pending-verification state exists: accounts are usable
			// immediately after signup.
			Verified: true,
		}

		if role == RoleRecruiter {
			user.Organization = event.Organization
		}

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if created, err = h.Repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	userID := ""
	if created != nil {
		userID = created.ID.String()
	}

	sink := normalizeActivitySink(h.Sink)
	sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventSignup,
		UserID:     userID,
		Metadata:   map[string]any{"email": event.Email, "role": role},
		OccurredAt: time.Now(),
	})

	return nil
}
