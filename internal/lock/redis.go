package lock

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
    return 0
end
`)

// RedisStore implements Store on a single Redis primary.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, token, ttl).Result()
}

func (r *RedisStore) Refresh(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	n, err := refreshScript.Run(ctx, r.client, []string{key}, token, ttl.Milliseconds()).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *RedisStore) Release(ctx context.Context, key, token string) (bool, error) {
	n, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// isConnectionError reports whether err says the backend cannot be
// reached, as opposed to an error reply from a live server.
func isConnectionError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var reply redis.Error
	return !errors.As(err, &reply)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// RedisDialer returns a Dialer that builds a client from url and verifies
// it with PING before handing it out.
func RedisDialer(url string, dialTimeout time.Duration) (Dialer, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if dialTimeout > 0 {
		opts.DialTimeout = dialTimeout
	}
	// Connection state is tracked by Connection; go-redis must not retry on its own.
	opts.MaxRetries = -1
	return func(ctx context.Context) (Store, error) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, err
		}
		return NewRedisStore(client), nil
	}, nil
}
