package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task, userID string) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	// The insert only happens when the parent collection belongs to userID.
	const query = `
	INSERT INTO tasks (id, collection_id, content, expires_at, done)
	SELECT $1, c.id, $3, $4, FALSE
	FROM collections c
	WHERE c.id = $2 AND c.user_id = $5
	RETURNING done, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.CollectionID,
		task.Content,
		nullTime(task.ExpiresAt),
		userID,
	).Scan(&task.Done, &task.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	const query = `
	SELECT t.id, t.collection_id, t.content, t.expires_at, t.done, t.created_at
	FROM tasks t
	JOIN collections c ON c.id = t.collection_id
	WHERE t.id = $1 AND c.user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *taskRepository) ToggleDone(ctx context.Context, id, userID string) (*domain.Task, error) {
	const query = `
	UPDATE tasks t
	SET done = NOT t.done
	FROM collections c
	WHERE t.id = $1 AND c.id = t.collection_id AND c.user_id = $2
	RETURNING t.id, t.collection_id, t.content, t.expires_at, t.done, t.created_at
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `
	DELETE FROM tasks t
	USING collections c
	WHERE t.id = $1 AND c.id = t.collection_id AND c.user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task    domain.Task
		expires *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.CollectionID,
		&task.Content,
		&expires,
		&task.Done,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.ExpiresAt = expires
	return &task, nil
}
