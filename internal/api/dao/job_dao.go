package dao

import (
	"log/slog"

	"github.com/dpkirschner/teach-me/internal/api/domain"
	"github.com/dpkirschner/teach-me/internal/api/model"
)

// JobDAO is the generic DAO bound to the jobs table.
type JobDAO = DAO[model.Job, domain.Job, model.JobCreate, model.JobUpdate]

// NewJobDAO binds the generic DAO to the jobs descriptor. id and created_at
// are assigned by the database on insert and never written afterwards.
func NewJobDAO(logger *slog.Logger) *JobDAO {
	desc := Descriptor[model.JobCreate, model.JobUpdate]{
		Table:         "jobs",
		Columns:       []string{"id", "content", "created_at"},
		InsertColumns: []string{"content"},
		OrderBy:       "created_at, id",
		BindUpdate: func(in model.JobUpdate) map[string]interface{} {
			set := map[string]interface{}{}
			if in.Content != nil {
				set["content"] = *in.Content
			}
			return set
		},
	}

	return New[model.Job, domain.Job, model.JobCreate, model.JobUpdate](desc, jobToDomain, logger)
}

// jobToDomain translates the stored row into the business model, field by
// field.
func jobToDomain(rec model.Job) domain.Job {
	return domain.Job{
		ID:        rec.ID,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
	}
}
