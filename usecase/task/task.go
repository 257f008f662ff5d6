package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

type UseCase struct {
	tasks    repository.TaskRepository
	identity usecase.IdentityProvider
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a UseCase.
type Option func(*UseCase)

// WithClock overrides the clock used for expiration checks.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func New(tasks repository.TaskRepository, identity usecase.IdentityProvider, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if identity == nil {
		identity = usecase.ContextIdentity{}
	}
	uc := &UseCase{
		tasks:    tasks,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreateTask adds a task to one of the caller's collections.
//
// An expiration earlier than the start of the current UTC day is rejected;
// any moment of today or later is accepted.
func (uc *UseCase) CreateTask(ctx context.Context, collectionID, content string, expiresAt *time.Time) (*domain.Task, error) {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return nil, err
	}

	input := usecase.TaskInput{
		CollectionID: strings.TrimSpace(collectionID),
		Content:      strings.TrimSpace(content),
	}
	if err := usecase.Validate(input); err != nil {
		return nil, err
	}

	var expires *time.Time
	if expiresAt != nil {
		if expiresAt.IsZero() {
			return nil, domain.Validation("expires_at is invalid")
		}
		if expiresAt.Before(uc.startOfToday()) {
			return nil, domain.Validation("expires_at must not be in the past")
		}
		utc := expiresAt.UTC()
		expires = &utc
	}

	created, err := uc.tasks.Create(ctx, &domain.Task{
		CollectionID: input.CollectionID,
		Content:      input.Content,
		ExpiresAt:    expires,
	}, user.ID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrCollectionNotFound
		}
		logger.FromContext(ctx, uc.logger).Error("create task failed", zap.String("collection_id", input.CollectionID), zap.Error(err))
		return nil, usecase.StoreError("create task", err)
	}
	return uc.mark(created), nil
}

// GetTask returns one of the caller's tasks.
func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return nil, err
	}
	task, err := uc.tasks.GetByID(ctx, id, user.ID)
	if err != nil {
		return nil, uc.translate(ctx, "get task", id, err)
	}
	return uc.mark(task), nil
}

// ToggleTaskDone flips the done flag of one of the caller's tasks.
func (uc *UseCase) ToggleTaskDone(ctx context.Context, id string) (*domain.Task, error) {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return nil, err
	}
	task, err := uc.tasks.ToggleDone(ctx, id, user.ID)
	if err != nil {
		return nil, uc.translate(ctx, "toggle task", id, err)
	}
	return uc.mark(task), nil
}

// DeleteTask removes one of the caller's tasks.
func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id, user.ID); err != nil {
		return uc.translate(ctx, "delete task", id, err)
	}
	return nil
}

func (uc *UseCase) translate(ctx context.Context, op, id string, err error) error {
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return domain.ErrTaskNotFound
	}
	logger.FromContext(ctx, uc.logger).Error(op+" failed", zap.String("task_id", id), zap.Error(err))
	return usecase.StoreError(op, err)
}

func (uc *UseCase) mark(task *domain.Task) *domain.Task {
	task.Expired = task.IsExpired(uc.now())
	return task
}

func (uc *UseCase) startOfToday() time.Time {
	now := uc.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
