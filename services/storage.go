package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// orderCacheTTL bounds how long a duplicate webhook delivery is absorbed by
// the cache alone; past it the durable journal still catches replays.
const orderCacheTTL = 24 * time.Hour

// Storage is the redis-backed order cache. It is best effort: callers treat
// errors as a cache miss and fall through to the database.
type Storage struct {
	rdb *redis.Client
}

func NewStorage(addr string) *Storage {
	return &Storage{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *Storage) Seen(ctx context.Context, clientID uint, globalID string) (bool, error) {
	err := s.rdb.Get(ctx, orderKey(clientID, globalID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) Remember(ctx context.Context, clientID uint, globalID string) error {
	return s.rdb.SetNX(ctx, orderKey(clientID, globalID), 1, orderCacheTTL).Err()
}

func orderKey(clientID uint, globalID string) string {
	return fmt.Sprintf("order:%d:%s", clientID, globalID)
}
