package collection

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
)

func setup(t *testing.T, opts ...Option) (*UseCase, repository.TaskRepository) {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "store.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(boltRepo.NewCollectionRepository(db), nil, nil, opts...), boltRepo.NewTaskRepository(db)
}

func as(userID string) context.Context {
	return domain.ContextWithIdentity(context.Background(), domain.Identity{ID: userID})
}

func TestCreateCollection(t *testing.T) {
	uc, _ := setup(t)

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := uc.CreateCollection(context.Background(), "Personal", "BLUE")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("invalid input never persists", func(t *testing.T) {
		for _, tc := range []struct{ name, color string }{
			{"", "BLUE"},
			{"   ", "BLUE"},
			{"Personal", "TEAL"},
			{strings.Repeat("n", 51), "RED"},
		} {
			_, err := uc.CreateCollection(as("alice"), tc.name, tc.color)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "name=%q color=%q", tc.name, tc.color)
		}
		list, err := uc.ListCollections(as("alice"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("valid input is owned by caller", func(t *testing.T) {
		created, err := uc.CreateCollection(as("alice"), "  Personal  ", "blue")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "alice", created.UserID)
		assert.Equal(t, "Personal", created.Name)
		assert.Equal(t, domain.ColorBlue, created.Color)
		assert.False(t, created.CreatedAt.IsZero())
	})
}

func TestCreateThenListRoundTrip(t *testing.T) {
	uc, _ := setup(t)

	pairs := []struct{ name, color string }{
		{"Personal", "BLUE"},
		{"Work", "GREEN"},
		{"Personal", "RED"},
		{"Groceries", "YELLOW"},
	}
	for _, p := range pairs {
		created, err := uc.CreateCollection(as("alice"), p.name, p.color)
		require.NoError(t, err)

		list, err := uc.ListCollections(as("alice"))
		require.NoError(t, err)

		matches := 0
		for _, c := range list {
			if c.ID == created.ID {
				matches++
				assert.Equal(t, p.name, c.Name)
				assert.Equal(t, domain.Color(p.color), c.Color)
				assert.Equal(t, "alice", c.UserID)
			}
		}
		assert.Equal(t, 1, matches)
	}

	list, err := uc.ListCollections(as("alice"))
	require.NoError(t, err)
	require.Len(t, list, len(pairs))
	for i, p := range pairs {
		assert.Equal(t, p.name, list[i].Name, "collections are listed in creation order")
	}
}

func TestListCollectionsIsolation(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.CreateCollection(as("alice"), "Alice only", "PINK")
	require.NoError(t, err)

	list, err := uc.ListCollections(as("bob"))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = uc.ListCollections(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestDeleteCollection(t *testing.T) {
	uc, tasks := setup(t)
	ctx := as("alice")

	c, err := uc.CreateCollection(ctx, "Personal", "BLUE")
	require.NoError(t, err)
	task, err := tasks.Create(ctx, &domain.Task{CollectionID: c.ID, Content: "Buy milk"}, "alice")
	require.NoError(t, err)

	err = uc.DeleteCollection(as("bob"), c.ID)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound, "foreign collection looks missing")

	err = uc.DeleteCollection(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.NoError(t, uc.DeleteCollection(ctx, c.ID))

	_, err = tasks.GetByID(ctx, task.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.DeleteCollection(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)

	assert.ErrorIs(t, uc.DeleteCollection(ctx, ""), domain.ErrCollectionNotFound)
}

type failingRepo struct {
	err error
}

func (f failingRepo) Create(context.Context, *domain.Collection) (*domain.Collection, error) {
	return nil, f.err
}

func (f failingRepo) ListWithTasks(context.Context, string) ([]domain.CollectionWithTasks, error) {
	return nil, f.err
}

func (f failingRepo) Delete(context.Context, string, string) error {
	return f.err
}

func TestStoreFailuresAreTagged(t *testing.T) {
	cause := errors.New("connection reset")
	uc := New(failingRepo{err: cause}, nil, nil)
	ctx := as("alice")

	_, err := uc.CreateCollection(ctx, "Personal", "BLUE")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreFailure))
	assert.ErrorIs(t, err, cause)

	_, err = uc.ListCollections(ctx)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreFailure))

	err = uc.DeleteCollection(ctx, "c1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreFailure))
}

func TestValidationHappensBeforeStore(t *testing.T) {
	uc := New(failingRepo{err: errors.New("must not be called")}, nil, nil)

	_, err := uc.CreateCollection(as("alice"), "", "BLUE")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.CreateCollection(context.Background(), "Personal", "BLUE")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestListCollectionsFlagsExpiredTasks(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	uc, tasks := setup(t, WithClock(func() time.Time { return now }))

	c, err := uc.CreateCollection(as("alice"), "Personal", "BLUE")
	require.NoError(t, err)

	overdue := now.Add(-time.Hour)
	upcoming := now.Add(24 * time.Hour)
	for _, task := range []*domain.Task{
		{CollectionID: c.ID, Content: "overdue", ExpiresAt: &overdue},
		{CollectionID: c.ID, Content: "upcoming", ExpiresAt: &upcoming},
		{CollectionID: c.ID, Content: "open ended"},
	} {
		_, err := tasks.Create(context.Background(), task, "alice")
		require.NoError(t, err)
	}

	list, err := uc.ListCollections(as("alice"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Tasks, 3)
	assert.True(t, list[0].Tasks[0].Expired)
	assert.False(t, list[0].Tasks[1].Expired)
	assert.False(t, list[0].Tasks[2].Expired)
}
