// Package lock provides a redis-backed lease so that only one service
// instance runs the escalation sweep per interval.
package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Lease struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewLease(client *redis.Client, key string, ttl time.Duration) *Lease {
	return &Lease{client: client, key: key, ttl: ttl}
}

// TryAcquire takes the lease if free. The TTL bounds how long a crashed
// holder can block other instances.
func (l *Lease) TryAcquire(ctx context.Context, holder string) (bool, error) {
	return l.client.SetNX(ctx, l.key, holder, l.ttl).Result()
}

// Release drops the lease only if this holder still owns it.
func (l *Lease) Release(ctx context.Context, holder string) error {
	const script = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		end
		return 0`
	return l.client.Eval(ctx, script, []string{l.key}, holder).Err()
}
