package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Auther implements the session lifecycle: credential verification, token
// minting backed by a ledger row, ledger-aware re-validation, and revocation.
type Auther struct {
	repo         RepositoryManager
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(repo RepositoryManager, tokenService TokenService) *Auther {
	return &Auther{
		repo:         repo,
		tokenService: tokenService,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator.
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credential pair, mints a token, and records it in the
// session ledger. A new login does not revoke earlier sessions: rows
// accumulate per user and logout clears them all at once.
func (s *Auther) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
				"email": email,
				"error": ErrIdentityNotFound.Message,
			})
			return "", nil, ErrIdentityNotFound
		}
		s.logger.Error("Login credential lookup error", "error", err)
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if !user.Verified {
		s.logger.Warn("Login blocked for unverified account", "user_id", user.ID)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID.String(), map[string]any{
			"email": email,
			"error": ErrAccountNotVerified.Message,
		})
		return "", nil, ErrAccountNotVerified
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID.String(), map[string]any{
			"email": email,
			"error": err.Error(),
		})
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return "", nil, ErrMismatchedHashAndPassword
		}
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password")
	}

	token, err := s.tokenService.Generate(IdentityFromUser(user))
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", nil, err
	}

	if _, err := s.repo.Sessions().Track(ctx, user.ID, token); err != nil {
		s.logger.Error("Login session ledger insert error", "error", err)
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to record session")
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, user.ID.String(), map[string]any{
		"email": email,
	})

	return token, user, nil
}

// VerifySession re-validates a raw token: signature and expiry first, then
// the subject's credential record, then the ledger row for the exact
// (user, token) pair. Any miss is terminal for the request.
func (s *Auther) VerifySession(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(claims.UserID())
	if err != nil {
		s.logger.Error("VerifySession token carries invalid subject", "subject", claims.UserID())
		return nil, ErrTokenMalformed
	}

	user, err := s.repo.Users().GetByUserID(ctx, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			// The account disappeared after token issuance.
			s.emitAuthEvent(ctx, ActivityEventVerifyFailure, uid.String(), map[string]any{
				"error": "user no longer exists",
			})
			return nil, ErrUnauthorized
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	live, err := s.repo.Sessions().ExistsForUser(ctx, uid, raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check session ledger")
	}

	if !live {
		s.emitAuthEvent(ctx, ActivityEventVerifyFailure, uid.String(), map[string]any{
			"error": ErrSessionRevoked.Message,
		})
		return nil, ErrSessionRevoked
	}

	return user, nil
}

// Logout revokes every live session for the user. Deleting zero rows is not
// an error, so a repeated logout stays a success.
func (s *Auther) Logout(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return errors.New("invalid user identifier", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	if err := s.repo.Sessions().DeleteByUser(ctx, uid); err != nil {
		s.logger.Error("Logout ledger delete error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to revoke sessions")
	}

	s.emitAuthEvent(ctx, ActivityEventLogout, userID, nil)

	return nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}

var _ Authenticator = (*Auther)(nil)
