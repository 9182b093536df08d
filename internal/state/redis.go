package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angaddubey10/oauth-demo/internal/utils"
)

// RedisStore keeps login attempts in Redis so multiple authentication
// service instances share one state space. Key TTLs enforce the validity
// window and GETDEL keeps consumption single-use under race.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "login_state:",
		ttl:    TTL,
	}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisStore) Issue(ctx context.Context, verifier string) (string, error) {
	token := utils.RandomString(32)

	data, err := json.Marshal(Attempt{Verifier: verifier, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("state: marshal attempt: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("state: store attempt: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) (*Attempt, error) {
	val, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return nil, nil // unknown, expired, or already consumed
	}
	if err != nil {
		return nil, fmt.Errorf("state: consume attempt: %w", err)
	}

	var attempt Attempt
	if err := json.Unmarshal([]byte(val), &attempt); err != nil {
		return nil, fmt.Errorf("state: unmarshal attempt: %w", err)
	}
	return &attempt, nil
}

func (s *RedisStore) Pending(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("state: scan attempts: %w", err)
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("state: scan attempts: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("state: drop attempts: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ Store = (*RedisStore)(nil)
