package jobs

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the job listing store.
type Repository interface {
	repository.Repository[*Job]

	ListRecent(ctx context.Context, limit int) ([]*Job, error)
	Post(ctx context.Context, job *Job) (*Job, error)
}

type jobsRepo struct {
	repository.Repository[*Job]
	db *bun.DB
}

var _ Repository = (*jobsRepo)(nil)

// NewRepository wires the listing store on the shared repository primitives.
func NewRepository(db *bun.DB) Repository {
	repo := repository.NewRepository[*Job](db, repository.ModelHandlers[*Job]{
		NewRecord: func() *Job { return &Job{} },
		GetID: func(j *Job) uuid.UUID {
			if j == nil {
				return uuid.Nil
			}
			return j.ID
		},
		SetID: func(j *Job, id uuid.UUID) {
			if j != nil {
				j.ID = id
			}
		},
	})

	return &jobsRepo{
		Repository: repo,
		db:         db,
	}
}

func (r *jobsRepo) ListRecent(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}

	records := []*Job{}
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *jobsRepo) Post(ctx context.Context, job *Job) (*Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	return r.Repository.Create(ctx, job)
}
