package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type collectionRepository struct {
	db  *bolt.DB
	now func() time.Time
}

// NewCollectionRepository returns a bbolt-backed implementation of CollectionRepository.
func NewCollectionRepository(db *bolt.DB) repository.CollectionRepository {
	return &collectionRepository{db: db, now: time.Now}
}

func (r *collectionRepository) Create(ctx context.Context, collection *domain.Collection) (*domain.Collection, error) {
	if collection == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(collectionsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		collection.CreatedAt = r.now().UTC()
		return put(b, collection.ID, collectionRecord{Collection: *collection, Seq: seq})
	})
	if err != nil {
		return nil, err
	}
	return collection, nil
}

func (r *collectionRepository) ListWithTasks(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		owned []collectionRecord
		tasks = make(map[string][]taskRecord)
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		ids := make(map[string]struct{})
		if err := tx.Bucket(collectionsBucket).ForEach(func(_, v []byte) error {
			var rec collectionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.UserID == userID {
				owned = append(owned, rec)
				ids[rec.ID] = struct{}{}
			}
			return nil
		}); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Bucket(tasksBucket).ForEach(func(_, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if _, ok := ids[rec.CollectionID]; ok {
				tasks[rec.CollectionID] = append(tasks[rec.CollectionID], rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortCollections(owned)
	result := make([]domain.CollectionWithTasks, 0, len(owned))
	for _, rec := range owned {
		children := tasks[rec.ID]
		sortTasks(children)
		item := domain.CollectionWithTasks{
			Collection: rec.Collection,
			Tasks:      make([]domain.Task, 0, len(children)),
		}
		for _, child := range children {
			item.Tasks = append(item.Tasks, child.Task)
		}
		item.Progress = domain.NewProgress(item.Tasks)
		result = append(result, item)
	}
	return result, nil
}

func (r *collectionRepository) Delete(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		if _, err := getOwnedCollection(tx, id, userID); err != nil {
			return err
		}

		tb := tx.Bucket(tasksBucket)
		var children [][]byte
		if err := tb.ForEach(func(k, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.CollectionID == id {
				children = append(children, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range children {
			if err := tb.Delete(k); err != nil {
				return err
			}
		}

		return tx.Bucket(collectionsBucket).Delete([]byte(id))
	})
}
