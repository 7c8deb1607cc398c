package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for secrets and the discovery snapshot.
// It satisfies secrets.Store.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get returns the secret stored under name, or "" when there is none
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	v, err := s.client.Get(ctx, SecretKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get secret: %w", err)
	}
	return v, nil
}

// Set stores a secret. Secrets never expire.
func (s *Store) Set(ctx context.Context, name, value string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SecretKey(name), value, 0)
	pipe.SAdd(ctx, AllSecretsKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save secret: %w", err)
	}
	return nil
}

// Delete removes a secret. Deleting a missing secret is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, SecretKey(name))
	pipe.SRem(ctx, AllSecretsKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

// Names lists stored secret names, sorted.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, AllSecretsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Ping checks the connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
