package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type collectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository returns a Postgres-backed implementation of CollectionRepository.
func NewCollectionRepository(pool *pgxpool.Pool) repository.CollectionRepository {
	return &collectionRepository{pool: pool}
}

func (r *collectionRepository) Create(ctx context.Context, collection *domain.Collection) (*domain.Collection, error) {
	if collection == nil {
		return nil, domain.ErrInvalidPayload
	}
	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO collections (id, user_id, name, color)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		collection.ID,
		collection.UserID,
		collection.Name,
		string(collection.Color),
	).Scan(&collection.CreatedAt); err != nil {
		return nil, err
	}

	return collection, nil
}

func (r *collectionRepository) ListWithTasks(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error) {
	const collectionsQuery = `
	SELECT id, user_id, name, color, created_at
	FROM collections
	WHERE user_id = $1
	ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, collectionsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := make([]domain.CollectionWithTasks, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			c     domain.CollectionWithTasks
			color string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &color, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Color = domain.Color(color)
		c.Tasks = make([]domain.Task, 0)
		index[c.ID] = len(collections)
		ids = append(ids, c.ID)
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return collections, nil
	}

	const tasksQuery = `
	SELECT id, collection_id, content, expires_at, done, created_at
	FROM tasks
	WHERE collection_id = ANY($1)
	ORDER BY created_at ASC, seq ASC
	`
	taskRows, err := r.pool.Query(ctx, tasksQuery, ids)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()

	for taskRows.Next() {
		task, err := scanTask(taskRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[task.CollectionID]; ok {
			collections[i].Tasks = append(collections[i].Tasks, *task)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, err
	}

	for i := range collections {
		collections[i].Progress = domain.NewProgress(collections[i].Tasks)
	}
	return collections, nil
}

func (r *collectionRepository) Delete(ctx context.Context, id, userID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const lockQuery = `
		SELECT id
		FROM collections
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
		`
		var locked string
		if err := tx.QueryRow(ctx, lockQuery, id, userID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrCollectionNotFound
			}
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE collection_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrCollectionNotFound
		}
		return nil
	})
}
