// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps entries in Redis hashes holding the document and its
// write time. A single HSET is atomic, so readers never see a document
// without its matching timestamp.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // key prefix, e.g. "tivo:"
}

const (
	fieldData  = "data"
	fieldMTime = "mtime"
)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, config RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Debug().
		Str("addr", config.Addr).
		Int("db", config.DB).
		Msg("connected to Redis cache")

	return newRedisStore(client, config.Prefix, logger), nil
}

func newRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger, now: time.Now}
}

// Get retrieves an entry from Redis.
func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	if err := ValidateKey(key); err != nil {
		return Entry{}, false, err
	}
	vals, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	data, ok := vals[fieldData]
	if !ok {
		return Entry{}, false, nil
	}
	nanos, err := strconv.ParseInt(vals[fieldMTime], 10, 64)
	if err != nil {
		// An unknown write time reads as the epoch, which is always stale.
		s.logger.Warn().Err(err).Str("key", key).Msg("redis entry without valid mtime")
		nanos = 0
	}
	return Entry{Data: []byte(data), ModTime: time.Unix(0, nanos)}, true, nil
}

// Put stores an entry in Redis without expiry.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	mtime := strconv.FormatInt(s.now().UnixNano(), 10)
	if err := s.client.HSet(ctx, s.prefix+key, fieldData, data, fieldMTime, mtime).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
