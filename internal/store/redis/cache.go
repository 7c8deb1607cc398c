package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/discovery"
	"github.com/redis/go-redis/v9"
)

// DefaultDiscoveryTTL is how long a discovery snapshot is kept (24 hours)
const DefaultDiscoveryTTL = 24 * time.Hour

// SaveDiscovery stores the results of a discovery run, replacing the previous one
func (s *Store) SaveDiscovery(ctx context.Context, results []discovery.Result) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery results: %w", err)
	}
	if err := s.client.Set(ctx, LastDiscoveryKey(), data, DefaultDiscoveryTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache discovery results: %w", err)
	}
	return nil
}

// LastDiscovery returns the latest cached discovery results. found is false
// when nothing is cached.
func (s *Store) LastDiscovery(ctx context.Context) (results []discovery.Result, found bool, err error) {
	data, err := s.client.Get(ctx, LastDiscoveryKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached discovery: %w", err)
	}
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal discovery results: %w", err)
	}
	return results, true, nil
}
