package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// CollectionRepository persists collections. Every lookup is scoped to the
// owning user; rows of other users behave as if they did not exist.
type CollectionRepository interface {
	Create(ctx context.Context, collection *domain.Collection) (*domain.Collection, error)
	// ListWithTasks returns the user's collections ordered by creation time,
	// each with its tasks ordered by creation time.
	ListWithTasks(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error)
	// Delete removes the collection and all of its tasks atomically.
	Delete(ctx context.Context, id, userID string) error
}
