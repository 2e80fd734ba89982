package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dpkirschner/teach-me/internal/api/domain"
	"github.com/dpkirschner/teach-me/internal/api/dto"
	"github.com/dpkirschner/teach-me/internal/api/events"
	"github.com/dpkirschner/teach-me/internal/api/model"
)

// JobService applies job business rules on top of the generic service and
// publishes lifecycle events after successful writes.
type JobService struct {
	*Service[dto.CreateJobRequest, dto.UpdateJobRequest, dto.JobResponse, domain.Job, model.JobCreate, model.JobUpdate]

	events *events.Publisher
	logger *slog.Logger
}

// NewJobService wires the job service over a job DAO and a session provider.
// The events publisher may be nil when messaging is disabled.
func NewJobService(
	jobDAO DataAccess[domain.Job, model.JobCreate, model.JobUpdate],
	db *sqlx.DB,
	pub *events.Publisher,
	logger *slog.Logger,
) *JobService {
	hooks := Hooks[dto.CreateJobRequest, dto.UpdateJobRequest, dto.JobResponse, domain.Job, model.JobCreate, model.JobUpdate]{
		ToCreate: func(req dto.CreateJobRequest) model.JobCreate {
			return model.JobCreate{Content: req.Content}
		},
		ToUpdate: func(req dto.UpdateJobRequest) model.JobUpdate {
			return model.JobUpdate{Content: req.Content}
		},
		ToResponse: func(m domain.Job) dto.JobResponse {
			return dto.JobResponse{
				ID:        m.ID,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			}
		},
	}

	return &JobService{
		Service: NewService(jobDAO, db, hooks, logger),
		events:  pub,
		logger:  logger,
	}
}

// CreateJob validates the content rules and creates the job.
func (s *JobService) CreateJob(ctx context.Context, req dto.CreateJobRequest) (dto.JobResponse, error) {
	if err := validateContent(req.Content); err != nil {
		return dto.JobResponse{}, err
	}

	resp, err := s.Create(ctx, req)
	if err != nil {
		return dto.JobResponse{}, err
	}

	s.publish(ctx, events.JobCreated, resp.ID)
	return resp, nil
}

// GetJobByID returns the job or nil when absent.
func (s *JobService) GetJobByID(ctx context.Context, id uuid.UUID) (*dto.JobResponse, error) {
	return s.GetByID(ctx, id)
}

// GetAllJobs returns a page of jobs. Limits above the hard cap are clamped,
// not rejected; non-positive limits fall back to the default page size.
func (s *JobService) GetAllJobs(ctx context.Context, limit, offset int) ([]dto.JobResponse, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if limit > domain.MaxListLimit {
		s.logger.Warn("Requested limit exceeds maximum, clamping",
			slog.Int("requested", limit),
			slog.Int("limit", domain.MaxListLimit),
		)
		limit = domain.MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.GetAll(ctx, limit, offset)
}

// UpdateJob validates the content rules when content is present and applies
// the partial update. Returns nil when the job does not exist.
func (s *JobService) UpdateJob(ctx context.Context, id uuid.UUID, req dto.UpdateJobRequest) (*dto.JobResponse, error) {
	if req.Content != nil {
		if err := validateContent(*req.Content); err != nil {
			return nil, err
		}
	}

	resp, err := s.Update(ctx, id, req)
	if err != nil || resp == nil {
		return resp, err
	}

	s.publish(ctx, events.JobUpdated, resp.ID)
	return resp, nil
}

// DeleteJob removes the job. Returns false when it does not exist.
func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if ok {
		s.publish(ctx, events.JobDeleted, id)
	}
	return ok, nil
}

// validateContent enforces the job content business rules: non-empty after
// trimming whitespace and at most MaxContentLength characters. Exactly
// MaxContentLength characters is accepted.
func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: job content cannot be empty or only whitespace", domain.ErrValidation)
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return fmt.Errorf("%w: job content cannot exceed %d characters", domain.ErrValidation, domain.MaxContentLength)
	}
	return nil
}

// publish emits a lifecycle event after a committed write. Publishing is
// best-effort: failures are logged and never surfaced to the API caller.
func (s *JobService) publish(ctx context.Context, event string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJobEvent(ctx, event, id); err != nil {
		s.logger.Error("Failed to publish job event",
			slog.String("event", event),
			slog.String("job_id", id.String()),
			slog.Any("error", err),
		)
	}
}
