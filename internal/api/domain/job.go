package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxContentLength is the largest content payload accepted on create and update.
	MaxContentLength = 10000

	// MaxListLimit caps a single page of results; larger requests are clamped.
	MaxListLimit = 1000

	// DefaultListLimit is used when the caller does not specify a page size.
	DefaultListLimit = 100
)

// ErrValidation marks business-rule rejections. The API layer maps it to
// HTTP 400, distinct from not-found (a sentinel nil/false return, never an
// error) and from storage failures (HTTP 500).
var ErrValidation = errors.New("validation failed")

// Job is the business-level representation of a job, decoupled from the
// storage row and from the HTTP response shape.
type Job struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
}
