package handler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dpkirschner/teach-me/internal/api/dto"
	"github.com/dpkirschner/teach-me/shared/postgresql"
)

// JobService is the service surface the HTTP layer depends on.
type JobService interface {
	CreateJob(ctx context.Context, req dto.CreateJobRequest) (dto.JobResponse, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*dto.JobResponse, error)
	GetAllJobs(ctx context.Context, limit, offset int) ([]dto.JobResponse, error)
	UpdateJob(ctx context.Context, id uuid.UUID, req dto.UpdateJobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)
}

// Dependencies holds all dependencies needed by handlers.
type Dependencies struct {
	Logger   *slog.Logger
	Jobs     JobService
	DBClient *postgresql.Client
}

// JobHandler handles job-related HTTP requests.
type JobHandler struct {
	logger *slog.Logger
	jobs   JobService
}

// NewJobHandler creates a new JobHandler instance.
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}
