// Package session stores open scan sessions in Redis. Sessions expire on
// their own through the key TTL, so an operator device that vanishes never
// leaves a stale session behind.
package session

import (
	"context"
	"encoding/json"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/entity"
	"tripwatch/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "scan_session:"

// redisStore implements the repository.ScanSessionRepository interface.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore is the constructor for redisStore.
func NewRedisStore(client *redis.Client, cfg *config.Config) repository.ScanSessionRepository {
	return &redisStore{
		client: client,
		ttl:    cfg.Redis.SessionTTL,
	}
}

// Save stores an opened session until its TTL elapses.
func (store *redisStore) Save(ctx context.Context, session *entity.ScanSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal scan session")
	}

	if err := store.client.Set(ctx, keyPrefix+session.ID.String(), payload, store.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store scan session")
	}

	return nil
}

// Find retrieves an open session by ID.
func (store *redisStore) Find(ctx context.Context, id uuid.UUID) (*entity.ScanSession, error) {
	payload, err := store.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrScanSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to load scan session")
	}

	var session entity.ScanSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal scan session")
	}

	return &session, nil
}

// Delete closes a session explicitly. Deleting a session that already
// expired or never existed reports ErrScanSessionNotFound.
func (store *redisStore) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := store.client.Del(ctx, keyPrefix+id.String()).Result()
	if err != nil {
		return errors.Wrap(err, "failed to delete scan session")
	}
	if deleted == 0 {
		return repository.ErrScanSessionNotFound
	}

	return nil
}
