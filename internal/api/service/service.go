package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dpkirschner/teach-me/internal/api/dao"
)

// DataAccess is the slice of the generic DAO the service layer depends on.
type DataAccess[M any, C any, U any] interface {
	Create(ctx context.Context, sess dao.Session, in C) (M, error)
	GetByID(ctx context.Context, sess dao.Session, id uuid.UUID) (*M, error)
	GetAll(ctx context.Context, sess dao.Session, limit, offset int) ([]M, error)
	Update(ctx context.Context, sess dao.Session, id uuid.UUID, in U) (*M, error)
	Delete(ctx context.Context, sess dao.Session, id uuid.UUID) (bool, error)
}

// Hooks are the translations a concrete service must supply between API
// request/response shapes and DAO shapes.
type Hooks[CReq any, UReq any, Resp any, M any, C any, U any] struct {
	ToCreate   func(CReq) C
	ToUpdate   func(UReq) U
	ToResponse func(M) Resp
}

// Service mediates between API shapes and DAO shapes and owns the
// commit/rollback boundary. Every write runs in exactly one transaction
// scoped to the call; reads run against the pool with no transaction. The
// session is acquired and released symmetrically on every exit path.
type Service[CReq any, UReq any, Resp any, M any, C any, U any] struct {
	dao    DataAccess[M, C, U]
	db     *sqlx.DB
	hooks  Hooks[CReq, UReq, Resp, M, C, U]
	logger *slog.Logger
}

// NewService wires a generic service over a DAO and a session provider.
func NewService[CReq any, UReq any, Resp any, M any, C any, U any](
	da DataAccess[M, C, U],
	db *sqlx.DB,
	hooks Hooks[CReq, UReq, Resp, M, C, U],
	logger *slog.Logger,
) *Service[CReq, UReq, Resp, M, C, U] {
	return &Service[CReq, UReq, Resp, M, C, U]{
		dao:    da,
		db:     db,
		hooks:  hooks,
		logger: logger,
	}
}

// Create inserts a new entity and commits. On any failure the transaction is
// rolled back and the error propagates.
func (s *Service[CReq, UReq, Resp, M, C, U]) Create(ctx context.Context, req CReq) (Resp, error) {
	var zero Resp

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}

	m, err := s.dao.Create(ctx, tx, s.hooks.ToCreate(req))
	if err != nil {
		s.rollback(tx)
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.hooks.ToResponse(m), nil
}

// GetByID returns the entity or nil when absent. Read-only, no transaction.
func (s *Service[CReq, UReq, Resp, M, C, U]) GetByID(ctx context.Context, id uuid.UUID) (*Resp, error) {
	m, err := s.dao.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	resp := s.hooks.ToResponse(*m)
	return &resp, nil
}

// GetAll returns a page of entities. Read-only, no transaction.
func (s *Service[CReq, UReq, Resp, M, C, U]) GetAll(ctx context.Context, limit, offset int) ([]Resp, error) {
	models, err := s.dao.GetAll(ctx, s.db, limit, offset)
	if err != nil {
		return nil, err
	}

	resps := make([]Resp, len(models))
	for i, m := range models {
		resps[i] = s.hooks.ToResponse(m)
	}
	return resps, nil
}

// Update applies a partial update and commits. When the entity is absent the
// transaction is released without committing and nil is returned.
func (s *Service[CReq, UReq, Resp, M, C, U]) Update(ctx context.Context, id uuid.UUID, req UReq) (*Resp, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	m, err := s.dao.Update(ctx, tx, id, s.hooks.ToUpdate(req))
	if err != nil {
		s.rollback(tx)
		return nil, err
	}
	if m == nil {
		s.rollback(tx)
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	resp := s.hooks.ToResponse(*m)
	return &resp, nil
}

// Delete removes the entity and commits only when a row was actually
// deleted. A miss releases the transaction without committing.
func (s *Service[CReq, UReq, Resp, M, C, U]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	ok, err := s.dao.Delete(ctx, tx, id)
	if err != nil {
		s.rollback(tx)
		return false, err
	}
	if !ok {
		s.rollback(tx)
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (s *Service[CReq, UReq, Resp, M, C, U]) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		s.logger.Error("Failed to roll back transaction", slog.Any("error", err))
	}
}
