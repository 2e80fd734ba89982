package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpkirschner/teach-me/internal/api/dao"
	"github.com/dpkirschner/teach-me/internal/api/domain"
	"github.com/dpkirschner/teach-me/internal/api/dto"
	"github.com/dpkirschner/teach-me/internal/api/model"
)

// mockJobDAO implements DataAccess over the job shapes.
type mockJobDAO struct {
	mock.Mock
}

func (m *mockJobDAO) Create(ctx context.Context, sess dao.Session, in model.JobCreate) (domain.Job, error) {
	args := m.Called(ctx, sess, in)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *mockJobDAO) GetByID(ctx context.Context, sess dao.Session, id uuid.UUID) (*domain.Job, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *mockJobDAO) GetAll(ctx context.Context, sess dao.Session, limit, offset int) ([]domain.Job, error) {
	args := m.Called(ctx, sess, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *mockJobDAO) Update(ctx context.Context, sess dao.Session, id uuid.UUID, in model.JobUpdate) (*domain.Job, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *mockJobDAO) Delete(ctx context.Context, sess dao.Session, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, sess, id)
	return args.Bool(0), args.Error(1)
}

func newTestJobService(t *testing.T) (*JobService, *mockJobDAO, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	jobDAO := &mockJobDAO{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewJobService(jobDAO, sqlx.NewDb(mockDB, "sqlmock"), nil, logger)

	return svc, jobDAO, dbMock
}

func TestJobService_CreateJob(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	created := domain.Job{ID: uuid.New(), Content: "hello", CreatedAt: time.Now().UTC()}

	dbMock.ExpectBegin()
	jobDAO.On("Create", mock.Anything, mock.Anything, model.JobCreate{Content: "hello"}).
		Return(created, nil)
	dbMock.ExpectCommit()

	resp, err := svc.CreateJob(context.Background(), dto.CreateJobRequest{Content: "hello"})

	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "hello", resp.Content)
	jobDAO.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_CreateJob_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "whitespace only", content: "   "},
		{name: "tabs and newlines", content: "\t\n "},
		{name: "too long", content: strings.Repeat("a", domain.MaxContentLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, jobDAO, dbMock := newTestJobService(t)

			_, err := svc.CreateJob(context.Background(), dto.CreateJobRequest{Content: tt.content})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			// The DAO is never reached and no transaction is opened.
			jobDAO.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func TestJobService_CreateJob_MaxLengthContent(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	content := strings.Repeat("a", domain.MaxContentLength)
	created := domain.Job{ID: uuid.New(), Content: content, CreatedAt: time.Now().UTC()}

	dbMock.ExpectBegin()
	jobDAO.On("Create", mock.Anything, mock.Anything, model.JobCreate{Content: content}).
		Return(created, nil)
	dbMock.ExpectCommit()

	resp, err := svc.CreateJob(context.Background(), dto.CreateJobRequest{Content: content})

	require.NoError(t, err)
	assert.Equal(t, content, resp.Content)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_CreateJob_StorageError_RollsBack(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	storageErr := errors.New("connection reset")

	dbMock.ExpectBegin()
	jobDAO.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.Job{}, storageErr)
	dbMock.ExpectRollback()

	_, err := svc.CreateJob(context.Background(), dto.CreateJobRequest{Content: "hello"})

	require.Error(t, err)
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_GetJobByID(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	job := domain.Job{ID: uuid.New(), Content: "payload", CreatedAt: time.Now().UTC()}
	jobDAO.On("GetByID", mock.Anything, mock.Anything, job.ID).Return(&job, nil)

	resp, err := svc.GetJobByID(context.Background(), job.ID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, job.ID, resp.ID)
	assert.Equal(t, "payload", resp.Content)
	// Reads never open a transaction.
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_GetJobByID_NotFound(t *testing.T) {
	svc, jobDAO, _ := newTestJobService(t)

	id := uuid.New()
	jobDAO.On("GetByID", mock.Anything, mock.Anything, id).Return(nil, nil)

	resp, err := svc.GetJobByID(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestJobService_GetAllJobs_ClampsLimit(t *testing.T) {
	svc, jobDAO, _ := newTestJobService(t)

	jobDAO.On("GetAll", mock.Anything, mock.Anything, domain.MaxListLimit, 0).
		Return([]domain.Job{}, nil)

	_, err := svc.GetAllJobs(context.Background(), 5000, 0)

	require.NoError(t, err)
	jobDAO.AssertExpectations(t)
}

func TestJobService_GetAllJobs_DefaultsLimit(t *testing.T) {
	svc, jobDAO, _ := newTestJobService(t)

	jobDAO.On("GetAll", mock.Anything, mock.Anything, domain.DefaultListLimit, 0).
		Return([]domain.Job{}, nil)

	_, err := svc.GetAllJobs(context.Background(), 0, -3)

	require.NoError(t, err)
	jobDAO.AssertExpectations(t)
}

func TestJobService_GetAllJobs(t *testing.T) {
	svc, jobDAO, _ := newTestJobService(t)

	jobs := []domain.Job{
		{ID: uuid.New(), Content: "one", CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), Content: "two", CreatedAt: time.Now().UTC()},
	}
	jobDAO.On("GetAll", mock.Anything, mock.Anything, 2, 4).Return(jobs, nil)

	resps, err := svc.GetAllJobs(context.Background(), 2, 4)

	require.NoError(t, err)
	require.Len(t, resps, 2)
	assert.Equal(t, jobs[0].ID, resps[0].ID)
	assert.Equal(t, jobs[1].ID, resps[1].ID)
}

func TestJobService_UpdateJob(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()
	content := "updated"
	updated := domain.Job{ID: id, Content: content, CreatedAt: time.Now().UTC()}

	dbMock.ExpectBegin()
	jobDAO.On("Update", mock.Anything, mock.Anything, id, model.JobUpdate{Content: &content}).
		Return(&updated, nil)
	dbMock.ExpectCommit()

	resp, err := svc.UpdateJob(context.Background(), id, dto.UpdateJobRequest{Content: &content})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, content, resp.Content)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_UpdateJob_NotFound_DoesNotCommit(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()
	content := "anything"

	dbMock.ExpectBegin()
	jobDAO.On("Update", mock.Anything, mock.Anything, id, mock.Anything).Return(nil, nil)
	dbMock.ExpectRollback()

	resp, err := svc.UpdateJob(context.Background(), id, dto.UpdateJobRequest{Content: &content})

	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_UpdateJob_Validation(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()
	content := "  \t "

	_, err := svc.UpdateJob(context.Background(), id, dto.UpdateJobRequest{Content: &content})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	jobDAO.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_UpdateJob_AbsentContentSkipsValidation(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()
	existing := domain.Job{ID: id, Content: "original", CreatedAt: time.Now().UTC()}

	dbMock.ExpectBegin()
	jobDAO.On("Update", mock.Anything, mock.Anything, id, model.JobUpdate{}).
		Return(&existing, nil)
	dbMock.ExpectCommit()

	resp, err := svc.UpdateJob(context.Background(), id, dto.UpdateJobRequest{})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "original", resp.Content)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_DeleteJob(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()

	dbMock.ExpectBegin()
	jobDAO.On("Delete", mock.Anything, mock.Anything, id).Return(true, nil)
	dbMock.ExpectCommit()

	deleted, err := svc.DeleteJob(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_DeleteJob_NotFound_DoesNotCommit(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()

	dbMock.ExpectBegin()
	jobDAO.On("Delete", mock.Anything, mock.Anything, id).Return(false, nil)
	dbMock.ExpectRollback()

	deleted, err := svc.DeleteJob(context.Background(), id)

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestJobService_DeleteJob_StorageError_RollsBack(t *testing.T) {
	svc, jobDAO, dbMock := newTestJobService(t)

	id := uuid.New()
	storageErr := errors.New("deadlock detected")

	dbMock.ExpectBegin()
	jobDAO.On("Delete", mock.Anything, mock.Anything, id).Return(false, storageErr)
	dbMock.ExpectRollback()

	_, err := svc.DeleteJob(context.Background(), id)

	require.Error(t, err)
	assert.ErrorIs(t, err, storageErr)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
