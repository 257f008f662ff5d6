package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func setupClient(t *testing.T) *redislib.Client {
	t.Helper()
	url := os.Getenv("TASKBOARD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TASKBOARD_TEST_REDIS_URL not set")
	}
	opts, err := redislib.ParseURL(url)
	require.NoError(t, err)
	client := redislib.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestSessionRoundTrip(t *testing.T) {
	client := setupClient(t)
	repo := NewSessionRepository(client, "taskboard:test:"+uuid.NewString()+":", time.Minute)
	ctx := context.Background()

	session := &domain.Session{ID: uuid.NewString(), UserID: "u1", DisplayName: "Ada", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Ada", got.DisplayName)

	require.NoError(t, repo.Extend(ctx, session.ID, 120))
	require.NoError(t, repo.Delete(ctx, session.ID))

	_, err = repo.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, session.ID), domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Extend(ctx, session.ID, 60), domain.ErrSessionNotFound)
}

func TestSessionSaveRejectsIncomplete(t *testing.T) {
	repo := NewSessionRepository(nil, "", 0)
	assert.ErrorIs(t, repo.Save(context.Background(), &domain.Session{ID: "x"}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, repo.Save(context.Background(), nil), domain.ErrInvalidPayload)
}
