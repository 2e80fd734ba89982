package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dpkirschner/teach-me/internal/api/domain"
	"github.com/dpkirschner/teach-me/internal/api/dto"
)

// CreateJob handles POST /jobs/.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob handles GET /jobs/:job_id.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := h.parseJobID(c)
	if !ok {
		return
	}

	job, err := h.jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err, "Failed to get job")
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs handles GET /jobs/ with limit/offset pagination.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid query parameters"})
		return
	}

	jobs, err := h.jobs.GetAllJobs(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, err, "Failed to list jobs")
		return
	}

	if jobs == nil {
		jobs = []dto.JobResponse{}
	}
	c.JSON(http.StatusOK, jobs)
}

// UpdateJob handles PUT /jobs/:job_id.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, ok := h.parseJobID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), jobID, req)
	if err != nil {
		h.respondError(c, err, "Failed to update job")
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /jobs/:job_id.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, ok := h.parseJobID(c)
	if !ok {
		return
	}

	deleted, err := h.jobs.DeleteJob(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err, "Failed to delete job")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, dto.DeleteJobResponse{Message: "Job deleted successfully"})
}

// parseJobID validates the path identifier before anything reaches the
// service. A malformed id is a client error, distinct from not-found.
func (h *JobHandler) parseJobID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("job_id")

	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Error("Invalid job_id format",
			slog.String("job_id", raw),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "job_id must be a valid UUID"})
		return uuid.Nil, false
	}

	return id, true
}

// respondError maps error kind to status: validation failures become 400,
// everything else becomes a 500 with a generic detail so storage internals
// never leak to the client.
func (h *JobHandler) respondError(c *gin.Context, err error, msg string) {
	if errors.Is(err, domain.ErrValidation) {
		h.logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	h.logger.Error(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": msg})
}
