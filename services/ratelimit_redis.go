package services

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	redisCountPrefix = "ratelimit:count:"
	redisBlockPrefix = "ratelimit:block:"
)

// hitScript increments the window counter and stamps its TTL in one atomic
// Redis call. Doing INCR and PEXPIRE as separate commands would leave a
// counter without a TTL if the process died between them, freezing that
// key's window forever.
var hitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count`)

// RedisCounterStore shares rate-limit state across instances. Counting uses
// atomic INCR with a window TTL; blocks are separate keys whose TTL is the
// remaining block duration.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Hit(key string, policy RatePolicy) (RateResult, error) {
	ctx := context.Background()

	blockTTL, err := s.client.PTTL(ctx, redisBlockPrefix+key).Result()
	if err != nil {
		return RateResult{}, err
	}
	if blockTTL > 0 {
		return RateResult{Allowed: false, RetryAfter: blockTTL}, nil
	}

	// The TTL equals the window length, so the strict boundary semantics
	// match the in-memory store: the key only disappears after the window
	// has fully elapsed.
	count, err := hitScript.Run(ctx, s.client, []string{redisCountPrefix + key}, policy.Window.Milliseconds()).Int64()
	if err != nil {
		return RateResult{}, err
	}

	if int(count) > policy.MaxAttempts {
		block := policy.blockDuration()
		pipe := s.client.TxPipeline()
		pipe.Set(ctx, redisBlockPrefix+key, "1", block)
		pipe.Del(ctx, redisCountPrefix+key)
		if _, err := pipe.Exec(ctx); err != nil {
			return RateResult{}, err
		}
		return RateResult{Allowed: false, RetryAfter: block}, nil
	}

	return RateResult{Allowed: true}, nil
}
