package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateJobRequest is the POST /jobs/ body. Content is validated by the
// service layer; an empty string is a well-formed request, not a shape error.
type CreateJobRequest struct {
	Content string `json:"content"`
}

// UpdateJobRequest is the PUT /jobs/:job_id body. A missing content field
// makes the update a no-op that returns the stored record unchanged.
type UpdateJobRequest struct {
	Content *string `json:"content"`
}

// ListJobsRequest holds the pagination query parameters of GET /jobs/.
type ListJobsRequest struct {
	Limit  int `form:"limit,default=100"`
	Offset int `form:"offset,default=0"`
}

// JobResponse is the projection of a job returned by every endpoint.
type JobResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DeleteJobResponse confirms a successful deletion.
type DeleteJobResponse struct {
	Message string `json:"message"`
}
