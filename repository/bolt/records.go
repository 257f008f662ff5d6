package bolt

import (
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
)

var (
	collectionsBucket = []byte(boltdb.BucketCollections)
	tasksBucket       = []byte(boltdb.BucketTasks)
)

// Seq keeps insertion order stable for rows created within the same instant.
type collectionRecord struct {
	domain.Collection
	Seq uint64 `json:"seq"`
}

type taskRecord struct {
	domain.Task
	Seq uint64 `json:"seq"`
}

func getCollection(tx *bolt.Tx, id string) (*collectionRecord, error) {
	raw := tx.Bucket(collectionsBucket).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrCollectionNotFound
	}
	var rec collectionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// getOwnedCollection treats a collection of another user exactly like a missing one.
func getOwnedCollection(tx *bolt.Tx, id, userID string) (*collectionRecord, error) {
	rec, err := getCollection(tx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, domain.ErrCollectionNotFound
	}
	return rec, nil
}

func getOwnedTask(tx *bolt.Tx, id, userID string) (*taskRecord, error) {
	raw := tx.Bucket(tasksBucket).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrTaskNotFound
	}
	var rec taskRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if _, err := getOwnedCollection(tx, rec.CollectionID, userID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func put(b *bolt.Bucket, id string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), payload)
}

func sortCollections(recs []collectionRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return before(recs[i].CreatedAt, recs[i].Seq, recs[j].CreatedAt, recs[j].Seq)
	})
}

func sortTasks(recs []taskRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return before(recs[i].CreatedAt, recs[i].Seq, recs[j].CreatedAt, recs[j].Seq)
	})
}

func before(at time.Time, seq uint64, otherAt time.Time, otherSeq uint64) bool {
	if !at.Equal(otherAt) {
		return at.Before(otherAt)
	}
	return seq < otherSeq
}
