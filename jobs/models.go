package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Job is a listing posted by a recruiter.
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:job"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Company       string     `bun:"company,notnull" json:"company,omitempty"`
	Location      string     `bun:"location,nullzero" json:"location,omitempty"`
	Description   string     `bun:"description,nullzero" json:"description,omitempty"`
	PostedBy      uuid.UUID  `bun:"posted_by,notnull,type:uuid" json:"posted_by,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
