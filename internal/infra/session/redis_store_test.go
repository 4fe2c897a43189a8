package session

import (
	"context"
	"testing"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/entity"
	"tripwatch/internal/domain/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (repository.ScanSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{Redis: &config.RedisConfig{SessionTTL: 12 * time.Hour}}

	return NewRedisStore(client, cfg), mr
}

func TestRedisStore_SaveAndFind(t *testing.T) {
	store, _ := newTestStore(t)

	session := &entity.ScanSession{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		Template:  "{child} seen at {time}",
		Operator:  "chaperone-1",
		CreatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.Save(context.Background(), session))

	got, err := store.Find(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.GroupID, got.GroupID)
	assert.Equal(t, session.Template, got.Template)
	assert.Equal(t, session.Operator, got.Operator)
}

func TestRedisStore_FindMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrScanSessionNotFound)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)

	session := &entity.ScanSession{ID: uuid.New(), GroupID: uuid.New()}
	require.NoError(t, store.Save(context.Background(), session))

	mr.FastForward(13 * time.Hour)

	_, err := store.Find(context.Background(), session.ID)
	assert.ErrorIs(t, err, repository.ErrScanSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	session := &entity.ScanSession{ID: uuid.New(), GroupID: uuid.New()}
	require.NoError(t, store.Save(context.Background(), session))
	require.NoError(t, store.Delete(context.Background(), session.ID))

	_, err := store.Find(context.Background(), session.ID)
	assert.ErrorIs(t, err, repository.ErrScanSessionNotFound)
}

func TestRedisStore_DeleteMissing(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrScanSessionNotFound)
}
