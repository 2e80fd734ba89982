package model

import (
	"time"

	"github.com/google/uuid"
)

// Job is the persisted row of the jobs table. id and created_at are assigned
// by the database and never change afterwards.
type Job struct {
	ID        uuid.UUID `db:"id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// JobCreate carries the insertable fields of a new job.
type JobCreate struct {
	Content string `db:"content"`
}

// JobUpdate carries the fields of a partial update. A nil field is absent
// and leaves the stored value untouched.
type JobUpdate struct {
	Content *string `db:"content"`
}
