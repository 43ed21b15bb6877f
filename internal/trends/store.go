package trends

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
)

const snapshotKey = "trends:snapshot"

// SnapshotStore mirrors the last successful trend snapshot to Redis so a
// restarted process serves a warm cache instead of re-scraping on its
// first request.
type SnapshotStore struct {
	rdb *redis.Client
}

// NewSnapshotStore creates a SnapshotStore. If redisURL is empty or the
// connection fails, it returns a store with a nil client and all
// operations become no-ops.
func NewSnapshotStore(redisURL string) *SnapshotStore {
	if redisURL == "" {
		log.Println("redis: no URL configured, snapshot mirroring disabled")
		return &SnapshotStore{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, snapshot mirroring disabled: %v", redisURL, err)
		return &SnapshotStore{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, snapshot mirroring disabled: %v", err)
		return &SnapshotStore{}
	}

	log.Println("redis: connected, snapshot mirroring enabled")
	return &SnapshotStore{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (s *SnapshotStore) Client() *redis.Client {
	return s.rdb
}

// Load retrieves the mirrored snapshot. Returns nil when nothing is
// mirrored or mirroring is disabled.
func (s *SnapshotStore) Load(ctx context.Context) (*model.TrendsSnapshot, error) {
	if s.rdb == nil {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.TrendsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save mirrors a snapshot with the given TTL.
func (s *SnapshotStore) Save(ctx context.Context, snap *model.TrendsSnapshot, ttl time.Duration) error {
	if s.rdb == nil {
		return nil
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, snapshotKey, b, ttl).Err()
}

// Close shuts down the Redis connection.
func (s *SnapshotStore) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
