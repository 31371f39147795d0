package scheduling

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisLocker implements Locker with SETNX-and-TTL keys so admissions stay
// serialized when the engine runs across multiple instances. Release only
// deletes a key this holder still owns.
type RedisLocker struct {
	Client *redis.Client
}

const lockKeyPrefix = "admit:"

// releaseScript deletes the lock key only if its value matches the token
// handed out at acquire time, so an expired-and-reacquired lock is never
// released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{Client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, wait, ttl time.Duration) (func(), error) {
	token := uuid.New().String()
	fullKey := lockKeyPrefix + key
	deadline := time.Now().Add(wait)
	for {
		ok, err := l.Client.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(rctx, l.Client, []string{fullKey}, token).Err()
			}, nil
		}
		if time.Now().Add(25 * time.Millisecond).After(deadline) {
			return nil, errLockTimeout
		}
		select {
		case <-time.After(25 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
