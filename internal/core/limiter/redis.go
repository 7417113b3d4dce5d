package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// Redis 固定窗口计数，多实例共享配额
type Redis struct {
	RDB    *redis.Client
	Limit  int64
	Window time.Duration
	Prefix string
	now    func() time.Time
}

func NewRedis(rdb *redis.Client, limit int64, window time.Duration) *Redis {
	if window <= 0 {
		window = time.Second
	}
	return &Redis{RDB: rdb, Limit: limit, Window: window, Prefix: "rl", now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	slot := r.now().UnixNano() / int64(r.Window)
	k := fmt.Sprintf("%s:%s:%d", r.Prefix, key, slot)

	var incr *redis.IntCmd
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, 2*r.Window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= r.Limit, nil
}

// Ping 用于 readiness
func (r *Redis) Ping(ctx context.Context) error { return r.RDB.Ping(ctx).Err() }
