package bolt

import (
	"context"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type taskRepository struct {
	db  *bolt.DB
	now func() time.Time
}

// NewTaskRepository returns a bbolt-backed implementation of TaskRepository.
func NewTaskRepository(db *bolt.DB) repository.TaskRepository {
	return &taskRepository{db: db, now: time.Now}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task, userID string) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := *task
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		if _, err := getOwnedCollection(tx, created.CollectionID, userID); err != nil {
			return err
		}
		b := tx.Bucket(tasksBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		created.Done = false
		created.CreatedAt = r.now().UTC()
		return put(b, created.ID, taskRecord{Task: created, Seq: seq})
	})
	if err != nil {
		return nil, err
	}

	*task = created
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		rec, err := getOwnedTask(tx, id, userID)
		if err != nil {
			return err
		}
		found = rec.Task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *taskRepository) ToggleDone(ctx context.Context, id, userID string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated domain.Task
	err := r.db.Update(func(tx *bolt.Tx) error {
		rec, err := getOwnedTask(tx, id, userID)
		if err != nil {
			return err
		}
		rec.Done = !rec.Done
		if err := put(tx.Bucket(tasksBucket), rec.ID, rec); err != nil {
			return err
		}
		updated = rec.Task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		if _, err := getOwnedTask(tx, id, userID); err != nil {
			return err
		}
		return tx.Bucket(tasksBucket).Delete([]byte(id))
	})
}
