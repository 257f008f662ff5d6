package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// TaskRepository persists tasks. Ownership is resolved through the parent
// collection in the same statement or transaction as the access itself.
type TaskRepository interface {
	// Create inserts the task when the parent collection belongs to userID.
	Create(ctx context.Context, task *domain.Task, userID string) (*domain.Task, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	ToggleDone(ctx context.Context, id, userID string) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
}
