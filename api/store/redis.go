/* redis.go
 * Contains the Redis backed session store. Records are stored as JSON under session:<id> with a sliding TTL
 * Authors: AIRO Web Team
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// updateScript sets KEYS[1] to ARGV[2] with a PX of ARGV[3] only if the stored record's token is ARGV[1]
const updateScript = `
local cur = redis.call('GET', KEYS[1])
if not cur then return 0 end
local ok, rec = pcall(cjson.decode, cur)
if not ok or rec['token'] ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`

type RedisStore struct {
	Redis redis.Cmdable
	TTL   time.Duration
	close func() error
}

// Ensure RedisStore implements Interface
var _ Interface = (*RedisStore)(nil)

// NewRedisStore connects to redis and returns the session store.
// Preconditions: Receives a context, a redis URL (or bare host:port) and the session TTL (0 uses 30 days)
// Postconditions: Returns pointer to the RedisStore, or an error if redis could not be reached
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Fall back to simple connection
		opts = &redis.Options{Addr: url}
	}
	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Successfully connected to Redis")

	s := NewRedisStoreFromClient(client, ttl)
	s.close = client.Close
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client, e.g. a redismock client in tests
func NewRedisStoreFromClient(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{Redis: client, TTL: ttl}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

// Load fetches the record stored for sid, or ErrNotFound
func (s *RedisStore) Load(ctx context.Context, sid string) (Record, error) {
	raw, err := s.Redis.Get(ctx, sessionKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("error fetching session from redis: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return Record{}, fmt.Errorf("corrupt session record: %w", err)
	}
	return record, nil
}

// Save writes the whole record in a single SET, refreshing the TTL
func (s *RedisStore) Save(ctx context.Context, sid string, record Record) error {
	record.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.Redis.Set(ctx, sessionKey(sid), string(raw), s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update compares the stored token and writes in one script, so a concurrent Delete is never undone
func (s *RedisStore) Update(ctx context.Context, sid string, token string, record Record) error {
	record.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	written, err := s.Redis.Eval(ctx, updateScript, []string{sessionKey(sid)}, token, string(raw), s.TTL.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if written == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record stored for sid
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := s.Redis.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping performs a health check on the redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close closes the underlying client when the store owns it
func (s *RedisStore) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
