package limiter

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter 按 key 判定是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Local 进程内令牌桶，每个 key 一个 rate.Limiter，空闲 key 由 go-cache 过期回收
type Local struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration
	store *cache.Cache
}

func NewLocal(rps float64, burst int, idleTTL time.Duration) *Local {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	if burst < 1 {
		burst = 1
	}
	return &Local{
		rps:   rate.Limit(rps),
		burst: burst,
		ttl:   idleTTL,
		store: cache.New(idleTTL, 2*idleTTL),
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	return l.bucket(key).Allow(), nil
}

func (l *Local) bucket(key string) *rate.Limiter {
	if v, ok := l.store.Get(key); ok {
		lim := v.(*rate.Limiter)
		// 续期
		l.store.Set(key, lim, l.ttl)
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	// Add 在 key 已存在时失败，并发下以先写入者为准
	if err := l.store.Add(key, lim, l.ttl); err != nil {
		if v, ok := l.store.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Len 当前跟踪的 key 数
func (l *Local) Len() int { return l.store.ItemCount() }
