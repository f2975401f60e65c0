package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Sessions is the server-side session ledger. It deliberately does not
// deduplicate rows per user on create: repeated logins accumulate live rows,
// and a single logout revokes them all. DeleteByUser is idempotent.
type Sessions interface {
	repository.Repository[*Session]

	Track(ctx context.Context, userID uuid.UUID, token string) (*Session, error)
	TrackTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string) (*Session, error)

	// ExistsForUser reports whether the exact (user, token) pair is still
	// live, i.e. has not been revoked by an intervening logout.
	ExistsForUser(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error

	// DeleteExpired purges rows older than the given age. Expired tokens fail
	// signature validation anyway; this keeps the ledger from growing without
	// bound.
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type sessions struct {
	repository.Repository[*Session]
	db *bun.DB
}

var (
	_ Sessions                        = (*sessions)(nil)
	_ repository.Repository[*Session] = (*sessions)(nil)
)

// NewSessionsRepository wires the session ledger on top of the shared
// repository primitives.
func NewSessionsRepository(db *bun.DB) Sessions {
	repo := repository.NewRepository[*Session](db, repository.ModelHandlers[*Session]{
		NewRecord: func() *Session { return &Session{} },
		GetID: func(s *Session) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Session, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &sessions{
		Repository: repo,
		db:         db,
	}
}

func (r *sessions) Track(ctx context.Context, userID uuid.UUID, token string) (*Session, error) {
	return r.TrackTx(ctx, r.db, userID, token)
}

func (r *sessions) TrackTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string) (*Session, error) {
	record := &Session{
		ID:     uuid.New(),
		UserID: userID,
		Token:  token,
	}

	return r.Repository.CreateTx(ctx, tx, record)
}

func (r *sessions) ExistsForUser(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	return r.db.NewSelect().
		Model((*Session)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.token = ?", token).
		Exists(ctx)
}

func (r *sessions) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.DeleteByUserTx(ctx, r.db, userID)
}

func (r *sessions) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Session)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)

	return err
}

func (r *sessions) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	res, err := r.db.NewDelete().
		Model((*Session)(nil)).
		Where("?TableAlias.created_at < ?", cutoff).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return affected, nil
}
